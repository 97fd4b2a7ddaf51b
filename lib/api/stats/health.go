package stats

import (
	"github.com/gofiber/fiber/v2"
	"github.com/slidedeck/slidedeck-go/lib/db"
	"github.com/slidedeck/slidedeck-go/lib/session"
)

// DBChecker verifies the snapshot store answers queries.
type DBChecker struct {
	Store db.SnapshotStore
}

func (d DBChecker) Name() string {
	return "db"
}

func (d DBChecker) Check() Check {
	ids, err := d.Store.ListDeckIDs()
	if err != nil {
		return Check{
			Status: StatusFail,
			Output: err.Error(),
		}
	}
	return Check{
		Status:   StatusPass,
		Observed: len(ids),
	}
}

// RoomChecker reports the live collaboration load.
type RoomChecker struct {
	Registry *session.Registry
}

func (r RoomChecker) Name() string {
	return "rooms"
}

func (r RoomChecker) Check() Check {
	_, connections := r.Registry.Stats()
	return Check{
		Status:    StatusPass,
		Component: "connections",
		Observed:  connections,
	}
}

// Handler serves the health endpoint in the RFC Health Check draft
// shape.
func Handler(
	version string,
	serviceID string,
	checkers []Checker,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp := HealthResponse{
			Status:    StatusPass,
			Version:   version,
			ServiceID: serviceID,
			Checks:    map[string][]Check{},
		}

		httpStatus := fiber.StatusOK

		for _, checker := range checkers {
			check := checker.Check()
			resp.Checks[checker.Name()] = []Check{check}

			switch check.Status {
			case StatusFail:
				resp.Status = StatusFail
				httpStatus = fiber.StatusServiceUnavailable
			case StatusWarn:
				if resp.Status != StatusFail {
					resp.Status = StatusWarn
					httpStatus = fiber.StatusOK
				}
			}
		}

		return c.Status(httpStatus).JSON(resp)
	}
}
