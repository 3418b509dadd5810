package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutils "github.com/langpoll/langpoll/api/controllers/testing"
	"github.com/langpoll/langpoll/api/models"
)

func TestGetLogs(t *testing.T) {
	t.Run("Happy path - log grows with every vote", func(t *testing.T) {
		router := setupTestRouter(t, "go", "rust")

		for _, language := range []string{"go", "rust", "go"} {
			res := testutils.PerformRequest(router, http.MethodPost, "/", models.VoteRequest{Language: language})
			require.Equal(t, http.StatusOK, res.Code)
		}

		res := testutils.PerformRequest(router, http.MethodGet, "/logs", nil)
		assert.Equal(t, http.StatusOK, res.Code)

		var response models.HistoryResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))
		require.Len(t, response.OptionHistory, 3)
		assert.Equal(t, "go", response.OptionHistory[0].Option)
		assert.Equal(t, "rust", response.OptionHistory[1].Option)
		assert.Equal(t, "go", response.OptionHistory[2].Option)
	})

	t.Run("Happy path - empty log is an empty array", func(t *testing.T) {
		router := setupTestRouter(t, "go", "rust")

		res := testutils.PerformRequest(router, http.MethodGet, "/logs", nil)
		assert.Equal(t, http.StatusOK, res.Code)

		var response models.HistoryResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))
		assert.NotNil(t, response.OptionHistory)
		assert.Empty(t, response.OptionHistory)
	})
}

func TestResetHistoryEndpoint(t *testing.T) {
	t.Run("Happy path - correct key clears the poll", func(t *testing.T) {
		router := setupTestRouter(t, "go", "rust")

		for _, language := range []string{"go", "go", "rust"} {
			res := testutils.PerformRequest(router, http.MethodPost, "/", models.VoteRequest{Language: language})
			require.Equal(t, http.StatusOK, res.Code)
		}

		res := testutils.PerformRequest(router, http.MethodPost, "/reset", models.ResetRequest{Key: "secret"})
		assert.Equal(t, http.StatusOK, res.Code)

		var response models.HistoryResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))
		assert.Empty(t, response.OptionHistory)
		assert.False(t, response.Failed)

		pollRes := testutils.PerformRequest(router, http.MethodGet, "/", nil)
		var poll models.PollResponse
		require.NoError(t, json.Unmarshal(pollRes.Body.Bytes(), &poll))
		assert.Equal(t, []int{0, 0}, poll.OptionCounts)
	})

	t.Run("Unhappy path - wrong key gets 401 and keeps the state", func(t *testing.T) {
		router := setupTestRouter(t, "go", "rust")

		res := testutils.PerformRequest(router, http.MethodPost, "/", models.VoteRequest{Language: "go"})
		require.Equal(t, http.StatusOK, res.Code)

		resetRes := testutils.PerformRequest(router, http.MethodPost, "/reset", models.ResetRequest{Key: "wrong"})
		assert.Equal(t, http.StatusUnauthorized, resetRes.Code)

		var response models.HistoryResponse
		require.NoError(t, json.Unmarshal(resetRes.Body.Bytes(), &response))
		assert.True(t, response.Failed)
		assert.Len(t, response.OptionHistory, 1, "current history still comes back")

		pollRes := testutils.PerformRequest(router, http.MethodGet, "/", nil)
		var poll models.PollResponse
		require.NoError(t, json.Unmarshal(pollRes.Body.Bytes(), &poll))
		assert.Equal(t, []int{1, 0}, poll.OptionCounts)
	})

	t.Run("Unhappy path - missing key gets 401", func(t *testing.T) {
		router := setupTestRouter(t, "go", "rust")

		res := testutils.PerformRequest(router, http.MethodPost, "/reset", nil)
		assert.Equal(t, http.StatusUnauthorized, res.Code)

		var response models.HistoryResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))
		assert.True(t, response.Failed)
	})
}
