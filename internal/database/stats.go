package database

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Stats holds row counts per table.
type Stats struct {
	Users         int64 `json:"users"`
	Posts         int64 `json:"posts"`
	Tournaments   int64 `json:"tournaments"`
	Registrations int64 `json:"registrations"`
	Winners       int64 `json:"winners"`
}

// Count returns the number of rows for model, e.g. &User{}.
func (c *Client) Count(ctx context.Context, model any) (int64, error) {
	var n int64
	err := c.db.WithContext(ctx).Model(model).Count(&n).Error
	return n, err
}

func (c *Client) GetStats(ctx context.Context) (*Stats, error) {
	var s Stats
	g, ctx := errgroup.WithContext(ctx)
	for model, dst := range map[any]*int64{
		&User{}:         &s.Users,
		&Post{}:         &s.Posts,
		&Tournament{}:   &s.Tournaments,
		&Registration{}: &s.Registrations,
		&Winner{}:       &s.Winners,
	} {
		g.Go(func() error {
			n, err := c.Count(ctx, model)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &s, nil
}
