package palette

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MetricColorsGenerated counts random colors drawn for working palettes
	MetricColorsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "palette_colors_generated_total",
		Help: "Total random colors generated for working palettes",
	})

	// MetricSaves counts save attempts by outcome
	MetricSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "palette_saves_total",
		Help: "Total palette save attempts by outcome",
	}, []string{"outcome"})

	// MetricDeletes counts saved palettes removed
	MetricDeletes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "palette_deletes_total",
		Help: "Total saved palettes deleted",
	})

	// MetricRejectedColors counts colors rejected by validation
	MetricRejectedColors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "palette_rejected_colors_total",
		Help: "Total colors rejected as malformed",
	})
)
