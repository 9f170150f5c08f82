// Package eventhandler содержит обработчики доменных событий.
// Обработчики подписываются на шину событий и выполняют побочные эффекты
// уже после того, как мутация применена и записана в журнал.
package eventhandler

import (
	"github.com/VeraBsp/filmorate/internal/domain/shared"
	"github.com/VeraBsp/filmorate/pkg/logger"
)

// ═══════════════════════════════════════════════════════════════════════════
// AUDIT LOG HANDLER
// Пишет каждое изменение каталога и графа в структурированный лог.
// ═══════════════════════════════════════════════════════════════════════════

// AuditHandler логирует доменные события.
type AuditHandler struct {
	log *logger.Logger
}

// NewAuditHandler создаёт обработчик. nil-логгер заменяется на Nop.
func NewAuditHandler(log *logger.Logger) *AuditHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuditHandler{log: log.With(logger.Component("audit"))}
}

// Handle пишет одну строку на событие. Ошибок не возвращает:
// аудит не должен влиять на остальных подписчиков.
func (h *AuditHandler) Handle(event shared.Event) error {
	fields := []logger.Field{
		logger.String("event_type", string(event.EventType())),
		logger.String("aggregate_id", event.AggregateID()),
	}

	switch e := event.(type) {
	case shared.FriendshipEvent:
		fields = append(fields,
			logger.UserID(int64(e.UserID)),
			logger.Int64("friend_id", int64(e.FriendID)),
		)
	case shared.LikeEvent:
		fields = append(fields,
			logger.FilmID(int64(e.FilmID)),
			logger.UserID(int64(e.UserID)),
		)
	case shared.EntityEvent:
		fields = append(fields, logger.Int64("entity_id", e.EntityID))
	}

	if isDeletion(event.EventType()) {
		h.log.Info("catalog record deleted", fields...)
		return nil
	}
	h.log.Debug("catalog changed", fields...)
	return nil
}

// isDeletion - удаления пишутся на уровне info, остальное на debug.
func isDeletion(t shared.EventType) bool {
	switch t {
	case shared.EventUserDeleted, shared.EventFilmDeleted, shared.EventDirectorDeleted:
		return true
	}
	return false
}
