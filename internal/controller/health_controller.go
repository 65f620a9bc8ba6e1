package controller

import (
	"context"
	"time"

	"vaulta-banking-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger is a readiness dependency.
type Pinger func(ctx context.Context) error

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Live(ctx *fiber.Ctx) error
	Ready(ctx *fiber.Ctx) error
}

type healthController struct {
	checks   map[string]Pinger
	gatherer prometheus.Gatherer
}

// NewHealthController serves liveness, readiness over checks and the
// metrics in gatherer.
func NewHealthController(checks map[string]Pinger, gatherer prometheus.Gatherer) IHealthController {
	return &healthController{checks: checks, gatherer: gatherer}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Live)
	r.Get("/health/ready", c.Ready)
	if c.gatherer != nil {
		r.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})))
	}
}

func (c *healthController) Live(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.HealthResponse{Status: "ok"})
}

func (c *healthController) Ready(ctx *fiber.Ctx) error {
	pctx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
	defer cancel()

	res := dto.HealthResponse{Status: "ok", Checks: make(map[string]string, len(c.checks))}
	for name, ping := range c.checks {
		if err := ping(pctx); err != nil {
			res.Status = "unavailable"
			res.Checks[name] = err.Error()
			continue
		}
		res.Checks[name] = "ok"
	}
	if res.Status != "ok" {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(res)
	}
	return ctx.JSON(res)
}
