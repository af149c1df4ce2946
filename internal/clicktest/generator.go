package clicktest

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"

	"github.com/google/uuid"
	"github.com/zikuli/precision/internal/domain/model"
	"github.com/zikuli/precision/pkg/logger"
)

// Constants for synthetic target geometry.
const (
	gridColumns   = 4
	targetWidth   = 80.0
	targetHeight  = 30.0
	gridSpacingX  = 120.0
	gridSpacingY  = 60.0
	gridOriginX   = 20.0
	gridOriginY   = 20.0
	missExtraMin  = 2.0
	missExtraSpan = 10.0
)

// Constant for random fraction resolution.
const randomFloatDivisor = 1000000

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateTargets lays out a synthetic batch of rectangular targets in a
// grid, with centers derived from the rects the way the real test page
// computes them.
func generateTargets(ctx context.Context, config *Config, stats *Stats) []model.Target {
	targets := make([]model.Target, 0, config.NumTargets)
	for i := 0; i < config.NumTargets; i++ {
		col := i % gridColumns
		row := i / gridColumns
		x := gridOriginX + float64(col)*gridSpacingX
		y := gridOriginY + float64(row)*gridSpacingY
		targets = append(targets, model.Target{
			ID:      fmt.Sprintf("target-%d", i),
			X:       x,
			Y:       y,
			W:       targetWidth,
			H:       targetHeight,
			CenterX: x + targetWidth/2,
			CenterY: y + targetHeight/2,
		})
	}

	stats.TargetsRegistered = len(targets)
	logger.Get().Info(ctx, "generated synthetic targets", logger.Int("count", len(targets)))
	return targets
}

// generateReports produces NumClicks reports spread over the targets. Most
// clicks land within the threshold of the declared center; a MissRate
// fraction deliberately lands outside it so the failed count is exercised
// too. Each report carries a unique uuid marker for exactly-once checking.
func generateReports(ctx context.Context, config *Config, targets []model.Target, stats *Stats) []model.ClickReport {
	reports := make([]model.ClickReport, 0, config.NumClicks)

	for i := 0; i < config.NumClicks; i++ {
		t := targets[i%len(targets)]
		miss := getRandomFloat() < config.MissRate

		var radius float64
		if miss {
			radius = config.ThresholdPx + missExtraMin + getRandomFloat()*missExtraSpan
		} else {
			radius = getRandomFloat() * config.ThresholdPx
		}
		angle := getRandomFloat() * 2 * math.Pi

		clickX := t.CenterX + radius*math.Cos(angle)
		clickY := t.CenterY + radius*math.Sin(angle)
		distance := math.Hypot(clickX-t.CenterX, clickY-t.CenterY)
		success := distance <= config.ThresholdPx

		if success {
			stats.ExpectedPasses++
		} else {
			stats.ExpectedFailures++
		}

		reports = append(reports, model.ClickReport{
			Target:    t.ID,
			ClickX:    clickX,
			ClickY:    clickY,
			ExpectedX: t.CenterX,
			ExpectedY: t.CenterY,
			Distance:  distance,
			Success:   success,
			Marker:    uuid.NewString(),
		})
	}

	stats.ClicksGenerated = len(reports)
	logger.Get().Info(ctx, "generated click reports",
		logger.Int("count", len(reports)),
		logger.Int("expectedPasses", stats.ExpectedPasses),
		logger.Int("expectedFailures", stats.ExpectedFailures),
	)
	return reports
}
