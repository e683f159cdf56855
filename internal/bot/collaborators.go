package bot

import (
	"context"

	"github.com/2beens/nutribot/internal/nutrition"
	"github.com/2beens/nutribot/internal/progress"
	"github.com/2beens/nutribot/internal/tracker"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=bot_test

type nutritionProvider interface {
	Lookup(ctx context.Context, food string) (*nutrition.Facts, error)
}

type progressReporter interface {
	Report(ctx context.Context, rec tracker.Record) progress.Report
}
