package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/papochat/papo/internal/database"
	"github.com/papochat/papo/internal/middleware"
	"github.com/papochat/papo/pkg/auth"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testDB(t *testing.T) *database.Database {
	t.Helper()
	d := &database.Database{}
	require.NoError(t, d.Connect(filepath.Join(t.TempDir(), "chat.db")))
	return d
}

func testRouter(db *database.Database, jwtMgr *auth.JWTManager) *gin.Engine {
	r := gin.New()

	authH := NewAuthHandler(db, jwtMgr, nil)
	userH := NewUserHandler(db)
	roomH := NewRoomHandler(db)
	messageH := NewHTTPMessageHandler(db)
	dmH := NewDMHandler(db)

	api := r.Group("/api")
	api.POST("/register", authH.Register)
	api.POST("/login", authH.Login)
	api.GET("/users/find", userH.FindByEmail)

	authed := api.Group("", middleware.AuthMiddleware(jwtMgr, nil))
	authed.GET("/me", authH.Me)
	authed.GET("/rooms", roomH.GetMyRooms)
	authed.POST("/rooms", roomH.CreateRoom)
	authed.POST("/rooms/:id/join", roomH.JoinRoom)
	authed.POST("/rooms/:id/leave", roomH.LeaveRoom)
	authed.GET("/messages/room/:id", messageH.GetRoomMessages)
	authed.GET("/messages/dm/:otherId", messageH.GetDMMessages)
	authed.GET("/dm/list", dmH.ListContacts)
	authed.POST("/dm/add", dmH.AddContact)
	authed.POST("/dm/remove/:otherId", dmH.RemoveContact)

	return r
}

func newJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Hour)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String())
}

// registerUser runs the full register endpoint and returns the issued token
// and user id.
func registerUser(t *testing.T, r *gin.Engine, name, email, password string) (string, uint) {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/register", "", gin.H{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var resp struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.User.ID
}
