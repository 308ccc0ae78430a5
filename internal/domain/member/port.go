package member

import "context"

type Repo interface {
	ListActive(ctx context.Context) ([]*Member, error)
}
