package http_test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	contacthttp "portfolio-backend/internal/contact/adapter/http"
	"portfolio-backend/internal/contact/domain/model"
	"portfolio-backend/internal/shared/contextkeys"
	"portfolio-backend/internal/shared/eventbus"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func queryTokenGuard(c *fiber.Ctx) error {
	if c.Query("token") != "good" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}
	c.Locals(contextkeys.AdminKey.String(), "admin")
	return c.Next()
}

func startWebSocketServer(t *testing.T, hub *contacthttp.Hub) string {
	t.Helper()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	contacthttp.NewWebSocketHandler(hub, nil).RegisterRoutes(app, queryTokenGuard)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return fmt.Sprintf("ws://%s/ws/contacts", ln.Addr().String())
}

func TestWebSocket_StreamsSubmissions(t *testing.T) {
	hub := contacthttp.NewHub(4, nil)
	url := startWebSocketServer(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token=good", nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello contacthttp.WebSocketMessage
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "connected", hello.Type)

	contact := &model.Contact{ID: primitive.NewObjectID(), Name: "Ada", Email: "ada@example.com", Subject: "Hi"}
	require.NoError(t, hub.HandleEvent(context.Background(), eventbus.NewBasicEvent(eventbus.EventTypeContactSubmitted, contact)))

	var notice contacthttp.WebSocketMessage
	require.NoError(t, conn.ReadJSON(&notice))
	assert.Equal(t, eventbus.EventTypeContactSubmitted, notice.Type)
	data, ok := notice.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, contact.ID.Hex(), data["contact_id"])

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 20*time.Millisecond)
}

func TestWebSocket_RejectsWithoutToken(t *testing.T) {
	hub := contacthttp.NewHub(4, nil)
	url := startWebSocketServer(t, hub)

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, hub.Count())
}

func TestWebSocket_RequiresUpgrade(t *testing.T) {
	app := fiber.New()
	contacthttp.NewWebSocketHandler(contacthttp.NewHub(1, nil), nil).RegisterRoutes(app, queryTokenGuard)

	req, _ := http.NewRequest(http.MethodGet, "/ws/contacts?token=good", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}
