package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutils "github.com/langpoll/langpoll/api/controllers/testing"
	"github.com/langpoll/langpoll/api/models"
	"github.com/langpoll/langpoll/logging"
	"github.com/langpoll/langpoll/storage"
	"github.com/langpoll/langpoll/tally"
)

func setupTestRouter(t *testing.T, options ...string) *gin.Engine {
	t.Helper()
	logging.Log = logrus.New()

	store := storage.NewMemoryOptionStore()
	require.NoError(t, store.EnsureOptions(context.Background(), options))
	service := tally.NewService(store, nil, "secret")

	gin.SetMode(gin.TestMode)
	r := gin.New()

	pollController := NewPollController(service)
	pollController.RegisterRoutes(r)
	adminController := NewAdminController(service)
	adminController.RegisterRoutes(r)

	return r
}

func TestGetPoll(t *testing.T) {
	t.Run("Happy path - fresh poll has zero counts", func(t *testing.T) {
		router := setupTestRouter(t, "go", "rust")

		res := testutils.PerformRequest(router, http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusOK, res.Code)

		var response models.PollResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))
		assert.Equal(t, []string{"go", "rust"}, response.OptionNames)
		assert.Equal(t, []int{0, 0}, response.OptionCounts)
		assert.False(t, response.Setup)
		assert.Empty(t, response.Error)
	})

	t.Run("Edge - unseeded poll flags setup", func(t *testing.T) {
		router := setupTestRouter(t)

		res := testutils.PerformRequest(router, http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusOK, res.Code)

		var response models.PollResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))
		assert.True(t, response.Setup)
	})
}

func TestCastVote(t *testing.T) {
	t.Run("Happy path - votes show up in the returned tally", func(t *testing.T) {
		router := setupTestRouter(t, "go", "rust")

		for _, language := range []string{"go", "go", "rust"} {
			res := testutils.PerformRequest(router, http.MethodPost, "/", models.VoteRequest{Language: language})
			assert.Equal(t, http.StatusOK, res.Code)
		}

		res := testutils.PerformRequest(router, http.MethodPost, "/", models.VoteRequest{Language: "go"})
		var response models.PollResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))
		assert.True(t, response.Results)
		assert.Equal(t, []string{"go", "rust"}, response.OptionNames)
		assert.Equal(t, []int{3, 1}, response.OptionCounts)
	})

	t.Run("Boundary - empty language changes nothing", func(t *testing.T) {
		router := setupTestRouter(t, "go", "rust")

		res := testutils.PerformRequest(router, http.MethodPost, "/", models.VoteRequest{Language: ""})
		assert.Equal(t, http.StatusOK, res.Code)

		var response models.PollResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))
		assert.True(t, response.Results)
		assert.Equal(t, []int{0, 0}, response.OptionCounts)
	})

	t.Run("Boundary - missing body is treated as no vote", func(t *testing.T) {
		router := setupTestRouter(t, "go", "rust")

		res := testutils.PerformRequest(router, http.MethodPost, "/", nil)
		assert.Equal(t, http.StatusOK, res.Code)

		var response models.PollResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))
		assert.Equal(t, []int{0, 0}, response.OptionCounts)
	})

	t.Run("Edge - vote response never flags setup", func(t *testing.T) {
		router := setupTestRouter(t)

		res := testutils.PerformRequest(router, http.MethodPost, "/", models.VoteRequest{Language: "go"})
		assert.Equal(t, http.StatusOK, res.Code)

		var response models.PollResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))
		assert.True(t, response.Results)
		assert.False(t, response.Setup, "setup belongs to the poll view only")
	})

	t.Run("Edge - unknown language is tolerated", func(t *testing.T) {
		router := setupTestRouter(t, "go", "rust")

		res := testutils.PerformRequest(router, http.MethodPost, "/", models.VoteRequest{Language: "cobol"})
		assert.Equal(t, http.StatusOK, res.Code)

		var response models.PollResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))
		assert.Equal(t, []int{0, 0}, response.OptionCounts)
	})
}
