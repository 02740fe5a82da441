package rest_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oiloilo44/lupin/internal/config"
	"github.com/oiloilo44/lupin/internal/entity"
	"github.com/oiloilo44/lupin/internal/repository"
	"github.com/oiloilo44/lupin/internal/usecase"
	"github.com/oiloilo44/lupin/testing/suite"
	"github.com/oiloilo44/lupin/transport/rest"
)

func newHandler(t *testing.T) (*rest.Handler, *usecase.Directory) {
	t.Helper()

	_, st := suite.New(t)
	sessions := repository.NewSessionRepository(st.Storage, 30*time.Minute)

	conf := config.Room{
		IdleTimeout:        30 * time.Minute,
		SweepInterval:      time.Minute,
		NegotiationTimeout: 30 * time.Second,
		MaxChatHistory:     50,
		MaxNicknameLength:  20,
		MaxMessageLength:   200,
	}

	directory := usecase.NewDirectory(st.Logger, sessions, conf)

	return rest.NewHandler(st.Logger, directory), directory
}

func TestCreateOmokRoom(t *testing.T) {
	t.Run("Returns the new room id and its shareable path", func(t *testing.T) {
		// Given: the room-creation endpoint
		handler, directory := newHandler(t)

		// When: a room is requested
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, "/rooms/omok", nil)
		handler.CreateOmokRoom(recorder, request)

		// Then: the response names a registered room
		require.Equal(t, http.StatusOK, recorder.Code)

		var body struct {
			RoomID string `json:"room_id"`
			URL    string `json:"url"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Len(t, body.RoomID, 8)
		assert.Equal(t, "/omok/"+body.RoomID, body.URL)

		_, err := directory.Get(body.RoomID)
		require.NoError(t, err)
	})
}

func TestGetRoom(t *testing.T) {
	t.Run("Reports the state of an existing room", func(t *testing.T) {
		// Given: a waiting room
		handler, directory := newHandler(t)
		room := directory.Create(entity.GameTypeOmok)

		// When: its status is requested
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/rooms/"+room.ID(), nil)
		request.SetPathValue("room_id", room.ID())
		handler.GetRoom(recorder, request)

		// Then: the snapshot comes back
		require.Equal(t, http.StatusOK, recorder.Code)

		var body struct {
			RoomID string           `json:"room_id"`
			Room   entity.RoomState `json:"room"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, room.ID(), body.RoomID)
		assert.Equal(t, entity.StatusWaiting, body.Room.Status)
		assert.Equal(t, entity.GameTypeOmok, body.Room.GameType)
		assert.Equal(t, 1, body.Room.GamesPlayed)
	})

	t.Run("Unknown rooms get a 404", func(t *testing.T) {
		handler, _ := newHandler(t)

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/rooms/deadbeef", nil)
		request.SetPathValue("room_id", "deadbeef")
		handler.GetRoom(recorder, request)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
