package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Counts struct {
	Stories         int64 `json:"stories"`
	Slides          int64 `json:"slides"`
	SlidesWithAudio int64 `json:"slides_with_audio"`
}

type TopStory struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	ViewCount int       `json:"view_count"`
}

// StatsReader serves the count-only and most viewed reads of the dashboard
type StatsReader interface {
	Counts(ctx context.Context) (Counts, error)
	TopViewed(ctx context.Context, limit int) ([]TopStory, error)
}

type StatsPgx struct {
	pg *pgxpool.Pool
}

func NewStatsPgx(pg *pgxpool.Pool) *StatsPgx {
	return &StatsPgx{pg: pg}
}

var _ StatsReader = (*StatsPgx)(nil)

func (p *StatsPgx) Counts(ctx context.Context) (Counts, error) {
	var counts Counts

	queries := []struct {
		builder sq.SelectBuilder
		dest    *int64
	}{
		{SqBuilder.Select("COUNT(*)").From("stories"), &counts.Stories},
		{SqBuilder.Select("COUNT(*)").From("story_slides"), &counts.Slides},
		{SqBuilder.Select("COUNT(*)").From("story_slides").Where(sq.NotEq{"audio_url": nil}), &counts.SlidesWithAudio},
	}

	for _, q := range queries {
		query, args, err := q.builder.ToSql()
		if err != nil {
			return Counts{}, ErrBadQuery
		}
		if err := p.pg.QueryRow(ctx, query, args...).Scan(q.dest); err != nil {
			return Counts{}, err
		}
	}

	return counts, nil
}

func (p *StatsPgx) TopViewed(ctx context.Context, limit int) ([]TopStory, error) {
	query, args, err := SqBuilder.
		Select("id::text", "title", "COALESCE(slug, '')", "view_count").
		From("stories").
		OrderBy("view_count DESC", "created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var top []TopStory
	for rows.Next() {
		var (
			story TopStory
			id    string
		)
		if err := rows.Scan(&id, &story.Title, &story.Slug, &story.ViewCount); err != nil {
			return nil, err
		}
		if story.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		top = append(top, story)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return top, nil
}
