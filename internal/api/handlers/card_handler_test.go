package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wikid82/lockward/internal/models"
)

func TestCardHandler_CRUD(t *testing.T) {
	r, _ := setupAdminRouter(t)
	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/locks", map[string]string{"uid": "L1"}).Code)

	w := doJSON(r, http.MethodPost, "/cards", map[string]interface{}{
		"uid": "A1", "name": "Alice", "member_id": "m1", "locks": []string{"L1"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var card models.Card
	decode(t, w, &card)
	assert.Equal(t, "tester", card.UpdatedBy)
	assert.False(t, card.Approved)
	assert.Equal(t, []string{"L1"}, card.LockUIDs())

	w = doJSON(r, http.MethodPost, "/cards", map[string]interface{}{"uid": "A1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPost, "/cards", map[string]interface{}{"uid": "B1", "locks": []string{"L9"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/cards", map[string]interface{}{"name": "no uid"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/cards?member_id=m1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Card
	decode(t, w, &list)
	assert.Len(t, list, 1)

	w = doJSON(r, http.MethodPut, "/cards/A1", map[string]interface{}{"checked": true, "rank": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &card)
	assert.True(t, card.Approved, "checked is an alias of approved")
	assert.Equal(t, 3, card.Rank)
	assert.Equal(t, "Alice", card.Name)

	w = doJSON(r, http.MethodPut, "/cards/nope", map[string]interface{}{"name": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodDelete, "/cards/A1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodDelete, "/cards/A1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCardHandler_ApproveRevoke(t *testing.T) {
	r, _ := setupAdminRouter(t)
	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/locks", map[string]string{"uid": "L1"}).Code)
	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/cards", map[string]interface{}{"uid": "A1", "locks": []string{"L1"}}).Code)

	w := doJSON(r, http.MethodGet, "/access?lock=L1&card=A1", nil)
	assert.JSONEq(t, `{"L1": false}`, w.Body.String())

	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, "/cards/A1/approve", nil).Code)
	w = doJSON(r, http.MethodGet, "/access?lock=L1&card=A1", nil)
	assert.JSONEq(t, `{"L1": true}`, w.Body.String())

	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, "/cards/A1/revoke", nil).Code)
	w = doJSON(r, http.MethodGet, "/access?lock=L1&card=A1", nil)
	assert.JSONEq(t, `{"L1": false}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodPost, "/cards/nope/approve", nil).Code)
}

func TestCardHandler_GetCreatesPlaceholder(t *testing.T) {
	r, _ := setupAdminRouter(t)
	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/locks", map[string]string{"uid": "L1"}).Code)
	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/locks", map[string]string{"uid": "L2"}).Code)

	var detail struct {
		Card    models.Card             `json:"card"`
		Locks   []models.LockAssignment `json:"locks"`
		Created bool                    `json:"created"`
	}
	w := doJSON(r, http.MethodGet, "/cards/Z9", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &detail)
	assert.True(t, detail.Created)
	assert.Equal(t, "Z9", detail.Card.UID)
	assert.False(t, detail.Card.Approved)
	require.Len(t, detail.Locks, 2)
	for _, l := range detail.Locks {
		assert.False(t, l.Assigned)
	}

	w = doJSON(r, http.MethodPut, "/cards/Z9", map[string]interface{}{"locks": []string{"L2"}})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/cards/Z9", nil)
	decode(t, w, &detail)
	assert.False(t, detail.Created)
	for _, l := range detail.Locks {
		assert.Equal(t, l.UID == "L2", l.Assigned)
	}
}

func TestCardHandler_BadJSON(t *testing.T) {
	r, _ := setupAdminRouter(t)
	w := doJSON(r, http.MethodPost, "/cards", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCardHandler_AssignLocks(t *testing.T) {
	r, _ := setupAdminRouter(t)
	for _, uid := range []string{"L1", "L2"} {
		require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/locks", map[string]string{"uid": uid}).Code)
	}
	w := doJSON(r, http.MethodPost, "/cards", map[string]interface{}{"uid": "A1", "name": "Alice", "locks": []string{"L1"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var card models.Card
	w = doJSON(r, http.MethodPut, "/cards/A1/locks", map[string]interface{}{"locks": []string{"L2", "L2"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &card)
	assert.Equal(t, []string{"L2"}, card.LockUIDs())
	assert.Equal(t, "Alice", card.Name)

	w = doJSON(r, http.MethodPut, "/cards/A1/locks", map[string]interface{}{"locks": []string{}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cleared models.Card
	decode(t, w, &cleared)
	assert.Empty(t, cleared.Locks)

	w = doJSON(r, http.MethodPut, "/cards/A1/locks", map[string]interface{}{"locks": []string{"L9"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPut, "/cards/A1/locks", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPut, "/cards/nope/locks", map[string]interface{}{"locks": []string{"L1"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCardHandler_GetTrimsUID(t *testing.T) {
	r, _ := setupAdminRouter(t)
	w := doJSON(r, http.MethodPost, "/cards", map[string]interface{}{"uid": "A1", "name": "Alice"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var detail struct {
		Card    models.Card `json:"card"`
		Created bool        `json:"created"`
	}
	w = doJSON(r, http.MethodGet, "/cards/%20A1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &detail)
	assert.False(t, detail.Created)
	assert.Equal(t, "Alice", detail.Card.Name)
}
