package services

import (
	"context"
	"log/slog"

	"github.com/campusboard/campus-news/internal/apperr"
	"github.com/campusboard/campus-news/internal/lib/sl"
)

// PurgeRepository описывает минимальный контракт хранилища для окончательного
// удаления учётных записей.
type PurgeRepository interface {
	GetDeletedModeratorIDs(ctx context.Context) ([]int64, error)
	DeleteModerator(ctx context.Context, id int64) error
}

// PurgeRegistry сообщает, ссылается ли на запись хоть один канал.
type PurgeRegistry interface {
	IsModeratorStillNeeded(ctx context.Context, moderatorID int64) (bool, error)
}

// Purger окончательно удаляет мягко удалённые учётные записи. Операция
// идемпотентна: вызывается и в момент удаления записи, и периодической
// зачисткой, когда привязки к каналам исчезают позже.
type Purger struct {
	repo     PurgeRepository
	channels PurgeRegistry
	log      *slog.Logger
}

// NewPurger создает новый экземпляр Purger.
func NewPurger(repo PurgeRepository, channels PurgeRegistry, log *slog.Logger) *Purger {
	return &Purger{
		repo:     repo,
		channels: channels,
		log:      log,
	}
}

// PurgeIfUnreferenced окончательно удаляет запись, если на неё больше не
// ссылается ни один канал. Иначе запись остаётся мягко удалённой и будет
// подхвачена следующей зачисткой.
func (p *Purger) PurgeIfUnreferenced(ctx context.Context, id int64) error {
	needed, err := p.channels.IsModeratorStillNeeded(ctx, id)
	if err != nil {
		return apperr.Storage(err)
	}
	if needed {
		return nil
	}
	if err := p.repo.DeleteModerator(ctx, id); err != nil {
		return apperr.Storage(err)
	}
	p.log.Info("purged unreferenced moderator", slog.Int64("id", id))
	return nil
}

// PurgeDeleted проходит по всем мягко удалённым записям и окончательно
// удаляет те, что больше не упоминаются каналами. Ошибка одной записи не
// прерывает обработку остальных.
func (p *Purger) PurgeDeleted(ctx context.Context) error {
	ids, err := p.repo.GetDeletedModeratorIDs(ctx)
	if err != nil {
		return apperr.Storage(err)
	}
	for _, id := range ids {
		if err := p.PurgeIfUnreferenced(ctx, id); err != nil {
			p.log.Error("failed to purge moderator", sl.Err(err), slog.Int64("id", id))
		}
	}
	return nil
}
