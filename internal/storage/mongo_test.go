package storage

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/octosync/octosync/internal/domain"
)

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestCollections(t *testing.T) {
	expected := []string{
		"repositories", "commits", "contributors",
		"pull_requests", "issues", "comments",
	}
	assert.Equal(t, expected, Collections())
}

func TestIndexSpecs_CoverAllCollections(t *testing.T) {
	specs := indexSpecs()
	require.Len(t, specs, len(Collections()))
	for _, name := range Collections() {
		assert.NotEmpty(t, specs[name], "collection %q has no indexes", name)
	}

	// The upsert filter fields must be indexed.
	indexedFields := func(name string) map[string]bool {
		fields := make(map[string]bool)
		for _, model := range specs[name] {
			keys, ok := model.Keys.(bson.D)
			require.True(t, ok)
			for _, key := range keys {
				fields[key.Key] = true
			}
		}
		return fields
	}
	assert.True(t, indexedFields(CollectionCommits)["sha"])
	assert.True(t, indexedFields(CollectionCommits)["repository_id"])
	assert.True(t, indexedFields(CollectionContributors)["login"])
	assert.True(t, indexedFields(CollectionRepositories)["owner"])
}

func TestStore_EnsureCollections(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates all six collections", func(mt *mtest.T) {
		for range Collections() {
			mt.AddMockResponses(mtest.CreateSuccessResponse())
		}
		store := &Store{client: mt.Client, db: mt.Client.Database("github_data"), logger: discardLogger()}

		assert.NoError(mt, store.EnsureCollections(context.Background()))
	})

	mt.Run("existing collections are a no-op", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    48,
			Name:    "NamespaceExists",
			Message: "collection github_data.repositories already exists",
		}))
		for range Collections()[1:] {
			mt.AddMockResponses(mtest.CreateSuccessResponse())
		}
		store := &Store{client: mt.Client, db: mt.Client.Database("github_data"), logger: discardLogger()}

		assert.NoError(mt, store.EnsureCollections(context.Background()))
	})

	mt.Run("other command errors propagate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized on github_data",
		}))
		store := &Store{client: mt.Client, db: mt.Client.Database("github_data"), logger: discardLogger()}

		err := store.EnsureCollections(context.Background())
		assert.Error(mt, err)
		assert.Contains(mt, err.Error(), "repositories")
	})
}

func TestStore_EnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("builds indexes for every collection", func(mt *mtest.T) {
		for range Collections() {
			mt.AddMockResponses(mtest.CreateSuccessResponse())
		}
		store := &Store{client: mt.Client, db: mt.Client.Database("github_data"), logger: discardLogger()}

		assert.NoError(mt, store.EnsureIndexes(context.Background()))
	})
}

func TestStore_SaveRepositories(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("upserts one document per repository", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())
		store := &Store{client: mt.Client, db: mt.Client.Database("github_data"), logger: discardLogger()}

		repos := []domain.Repository{
			{ID: 1, Owner: "octocat", Name: "repo-a"},
			{ID: 2, Owner: "octocat", Name: "repo-b"},
		}
		n, err := store.SaveRepositories(context.Background(), repos)
		assert.NoError(mt, err)
		assert.Equal(mt, 2, n)
	})

	mt.Run("write error aborts the batch", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized",
		}))
		store := &Store{client: mt.Client, db: mt.Client.Database("github_data"), logger: discardLogger()}

		_, err := store.SaveRepositories(context.Background(), []domain.Repository{{ID: 1}})
		assert.Error(mt, err)
	})
}

func TestStore_SaveCommits(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("stamps the repository id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		store := &Store{client: mt.Client, db: mt.Client.Database("github_data"), logger: discardLogger()}

		commits := []domain.Commit{{SHA: "abc1234", AuthorDate: time.Now().UTC()}}
		n, err := store.SaveCommits(context.Background(), 42, commits)
		assert.NoError(mt, err)
		assert.Equal(mt, 1, n)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)
	})
}
