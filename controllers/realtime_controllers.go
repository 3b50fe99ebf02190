package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/digital-menu/middlewares"
	"github.com/yeremiapane/digital-menu/realtime"
	"github.com/yeremiapane/digital-menu/services"
	"github.com/yeremiapane/digital-menu/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origins are enforced by the CORS middleware
	CheckOrigin: func(r *http.Request) bool { return true },
}

type RealtimeController struct {
	Hub        *realtime.MenuHub
	Storefront *services.StorefrontService
}

func NewRealtimeController(hub *realtime.MenuHub, storefront *services.StorefrontService) *RealtimeController {
	return &RealtimeController{Hub: hub, Storefront: storefront}
}

// PublicMenuSocket streams live menu changes of :owner to storefront
// visitors.
func (rc *RealtimeController) PublicMenuSocket(c *gin.Context) {
	owner, err := rc.Storefront.ResolveOwner(c.Request.Context(), c.Param("owner"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	rc.serve(c, owner.Email)
}

// DashboardSocket keeps an owner's open dashboard tabs in sync.
func (rc *RealtimeController) DashboardSocket(c *gin.Context) {
	owner, ok := middlewares.CurrentOwner(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	rc.serve(c, owner.Email)
}

func (rc *RealtimeController) serve(c *gin.Context, ownerEmail string) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Websocket upgrade failed: %v", err)
		return
	}

	rc.Hub.Register(ownerEmail, ws)
	defer rc.Hub.Unregister(ownerEmail, ws)

	// reads only detect the disconnect
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
}
