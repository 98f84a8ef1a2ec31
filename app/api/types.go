package api

import (
	"github.com/tapirio/techlife/app/assets"
	"github.com/tapirio/techlife/app/blog"
	"github.com/tapirio/techlife/app/episode"
	"github.com/tapirio/techlife/app/feed"
	"github.com/tapirio/techlife/app/questions"
)

type Handler struct {
	podcast     *feed.Metadata
	catalog     *episode.Catalog
	library     *blog.Library
	gate        *questions.Gate
	store       *questions.Store
	cacheBuster *assets.CacheBuster
}
