package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/repository/firestore"
	"github.com/secmon-lab/argus/pkg/repository/memory"
)

func newMemoryRepository(t *testing.T) interfaces.Repository {
	return memory.New()
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	// Separate collections per test keep List results independent
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())

	ctx := context.Background()
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func newRequest(title string) *model.IntakeRequest {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &model.IntakeRequest{
		ID:          model.NewRequestID(),
		Title:       title,
		Description: "description of " + title,
		RequestorID: "user-1",
		Details:     model.DefaultAttributes(),
		Status:      types.RequestStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func newPendingTask(requestID model.RequestID, team types.TeamID, at time.Time) *model.ReviewTask {
	return &model.ReviewTask{
		ID:        model.NewReviewTaskID(requestID, team),
		RequestID: requestID,
		Team:      team,
		Status:    types.TaskStatusPending,
		CreatedAt: at,
		UpdatedAt: at,
	}
}
