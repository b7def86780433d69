package websocket

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Handler upgrades the authenticated request to a websocket session and
// parks it on the hub until the connection closes.
func (s *Server) Handler(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	userID := c.Get("user_id").(int)

	client := NewClient(conn, userID, uuid.NewString())
	s.hub.Register(client)
	defer s.hub.Unregister(client)

	client.Run()

	<-client.Context().Done()
	return nil
}
