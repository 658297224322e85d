package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"spendwise-api/utils"
)

// WSHandler pushes "something changed" signals to every open session of a
// ledger, so a phone and a laptop viewing the same ledger stay in sync.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024
	// Keep-alive matters behind cloud proxies that kill idle connections.
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		ledgerID, _ := s.Get("ledger_id")
		utils.Debug("client connected to ledger %v", ledgerID)
	})

	m.HandleDisconnect(func(s *melody.Session) {
		ledgerID, _ := s.Get("ledger_id")
		utils.Debug("client disconnected from ledger %v", ledgerID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		utils.Error("websocket error: %v", err)
	})

	return &WSHandler{M: m}
}

func (h *WSHandler) HandleWS(c *gin.Context) {
	ledgerID := c.Param("id")

	// Session keys are bound per request so concurrent connects to
	// different ledgers cannot cross-tag each other.
	keys := map[string]interface{}{"ledger_id": ledgerID}
	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		utils.Error("failed to upgrade websocket: %v", err)
	}
}

// BroadcastUpdate signals every session watching the ledger.
func (h *WSHandler) BroadcastUpdate(ledgerID, updateType, userID string) {
	msg := []byte(`{"type": "` + updateType + `", "user": "` + userID + `"}`)

	err := h.M.BroadcastFilter(msg, func(s *melody.Session) bool {
		id, exists := s.Get("ledger_id")
		return exists && id == ledgerID
	})
	if err != nil {
		utils.Warn("error broadcasting to ledger %s: %v", ledgerID, err)
	}
}
