package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/steamsearcher/steamsearcher-web/internal/domain"
)

// Genres returns every genre label the backend knows about, as sent.
func (c *Client) Genres(ctx context.Context) ([]string, error) {
	var labels []string
	if err := c.do(ctx, http.MethodGet, genresPath, nil, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// Categories returns every category label the backend knows about, as sent.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var labels []string
	if err := c.do(ctx, http.MethodGet, categoriesPath, nil, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// Search posts the request and returns the records in backend order.
// Empty labels are stripped before sending; a null response decodes to an empty slice.
// A record that does not decode is logged and skipped; the rest are still returned.
func (c *Client) Search(ctx context.Context, req domain.SearchRequest) ([]domain.GameRecord, error) {
	req = req.Normalize()

	c.logger.Debug("searching backend",
		"query", req.Query,
		"genres", len(req.Genres),
		"categories", len(req.Categories),
	)

	var raw []json.RawMessage
	if err := c.do(ctx, http.MethodPost, searchPath, req, &raw); err != nil {
		return nil, err
	}

	games := make([]domain.GameRecord, 0, len(raw))
	for i, item := range raw {
		var g domain.GameRecord
		if err := json.Unmarshal(item, &g); err != nil {
			c.logger.Warn("skipping undecodable game record",
				"index", i,
				"error", err,
			)
			continue
		}
		games = append(games, g)
	}
	return games, nil
}
