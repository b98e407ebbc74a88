package engine

import (
	"context"
	"fmt"
)

// RodEngine is a driven engine. It borrows a Driver and never closes it.
type RodEngine struct {
	driver       Driver
	forceStealth bool
	name         string
}

// NewRodEngine creates a RodEngine over driver. When forceStealth is set
// every request is fetched with stealth evasions.
func NewRodEngine(driver Driver, forceStealth bool) *RodEngine {
	name := string(MethodRod)
	if forceStealth {
		name = string(MethodRodStealth)
	}
	return &RodEngine{
		driver:       driver,
		forceStealth: forceStealth,
		name:         name,
	}
}

func (e *RodEngine) Name() string { return e.name }

func (e *RodEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if e.driver == nil {
		return nil, fmt.Errorf("%s: driver not configured", e.name)
	}

	// Clone the request so we don't mutate the caller's copy.
	r := *req
	if e.forceStealth {
		r.Stealth = true
	}

	result, err := e.driver.Fetch(ctx, &r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.name, err)
	}

	result.EngineName = e.name
	return result, nil
}
