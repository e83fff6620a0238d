package airtable

import (
	"context"
	"net/http"
	"net/url"
)

// maxPages は1回の一覧取得でたどるページ数の上限（1ページ最大100件）
const maxPages = 1000

// listAll はページングの offset をたどってテーブルの全行を取得する
func listAll[F any](ctx context.Context, c *Client, operation, tableID string) ([]record[F], error) {
	var (
		records []record[F]
		offset  string
	)
	for page := 0; page < maxPages; page++ {
		query := url.Values{}
		if offset != "" {
			query.Set("offset", offset)
		}

		var resp listResponse[F]
		if err := c.do(ctx, operation, http.MethodGet, tablePath(tableID), query, nil, &resp); err != nil {
			return nil, err
		}
		records = append(records, resp.Records...)

		if resp.Offset == "" {
			break
		}
		offset = resp.Offset
	}
	return records, nil
}
