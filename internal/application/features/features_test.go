package features

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/refurb-inventory-api/internal/application/dto"
	"github.com/jhoicas/refurb-inventory-api/internal/application/inventory"
	"github.com/jhoicas/refurb-inventory-api/internal/application/routing"
	"github.com/jhoicas/refurb-inventory-api/internal/domain"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
	"github.com/jhoicas/refurb-inventory-api/internal/infrastructure/memory"
	"github.com/jhoicas/refurb-inventory-api/internal/infrastructure/redislock"
)

type statusMap map[string]string

func (m statusMap) GetStatus(_ context.Context, assetID string) (string, error) {
	s, ok := m[assetID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return s, nil
}

type startedOrders struct {
	mu  sync.Mutex
	ids map[string]bool
}

func (s *startedOrders) HasStarted(_ context.Context, orderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids[orderID], nil
}

type scenarioContext struct {
	store        *memory.Store
	statuses     statusMap
	wms          *startedOrders
	warehouses   map[string]string // código → id
	ledger       *inventory.LedgerUseCase
	reservations *inventory.ReservationUseCase
	availability *inventory.AvailabilityUseCase
	router       *routing.RouterUseCase

	verdict dto.AvailabilityResponse
	routed  *dto.RoutingResult
	err     error
}

func (c *scenarioContext) reset() {
	log := zerolog.Nop()
	c.store = memory.NewStore()
	c.statuses = statusMap{}
	c.wms = &startedOrders{ids: map[string]bool{}}
	c.warehouses = map[string]string{}
	policy := inventory.NewSellablePolicy("sellable")

	c.ledger = inventory.NewLedgerUseCase(c.store, c.store.Movements(), c.store.Locations(), nil, nil, log)
	c.reservations = inventory.NewReservationUseCase(c.store, c.store.Reservations(), c.statuses, policy, nil, nil, log)
	c.availability = inventory.NewAvailabilityUseCase(c.statuses, policy, c.store.Reservations(), c.ledger, nil, log)
	scoring := routing.NewScoringUseCase(c.store.Warehouses(), c.store.Stock(), nil)
	c.router = routing.NewRouterUseCase(c.store, scoring, c.store.Assignments(), c.store.Stock(), c.store.Warehouses(),
		c.wms, redislock.NewLocal(), nil, nil, nil, log)

	c.verdict = dto.AvailabilityResponse{}
	c.routed = nil
	c.err = nil
}

func splitIDs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Given

func (c *scenarioContext) anEmptyInventory() error {
	c.reset()
	return nil
}

func (c *scenarioContext) assetHasStatus(assetID, status string) error {
	c.statuses[assetID] = status
	return nil
}

func (c *scenarioContext) warehouseWithAvailableAssets(code, country, assets string) error {
	ctx := context.Background()
	id := uuid.New().String()
	if err := c.store.Warehouses().Create(ctx, &entity.Warehouse{ID: id, Code: code, Country: country, Active: true}); err != nil {
		return err
	}
	c.warehouses[code] = id
	for _, assetID := range splitIDs(assets) {
		if err := c.store.Stock().Create(ctx, &entity.StockLocationEntry{ID: uuid.New().String(), AssetID: assetID, WarehouseID: id}); err != nil {
			return err
		}
	}
	return nil
}

func (c *scenarioContext) fulfillmentHasStarted(orderID string) error {
	c.wms.mu.Lock()
	defer c.wms.mu.Unlock()
	c.wms.ids[orderID] = true
	return nil
}

// When

func (c *scenarioContext) iCheckAvailability(assetID string) error {
	c.verdict = c.availability.Check(context.Background(), assetID)
	return nil
}

func (c *scenarioContext) iReserve(assetID, orderRef string) error {
	_, c.err = c.reservations.Reserve(context.Background(), assetID, orderRef)
	return nil
}

func (c *scenarioContext) iRelease(assetID string) error {
	c.err = c.reservations.Release(context.Background(), assetID)
	return nil
}

func (c *scenarioContext) iAssignOrder(orderID, country, assets string) error {
	c.routed, c.err = c.router.AssignOrder(context.Background(), routing.AssignOrderInput{
		OrderID: orderID, CustomerCountry: country, AssetIDs: splitIDs(assets),
	})
	return nil
}

// Then

func (c *scenarioContext) thePositionIsUnknown(assetID string) error {
	pos, err := c.ledger.CurrentPosition(context.Background(), assetID)
	if err != nil {
		return err
	}
	if pos.Known() {
		return fmt.Errorf("expected unknown position, got %q", pos.LocationID)
	}
	return nil
}

func (c *scenarioContext) notAvailableWithReason(substring string) error {
	if c.verdict.Available {
		return errors.New("expected asset to be unavailable")
	}
	if !strings.Contains(c.verdict.Reason, substring) {
		return fmt.Errorf("expected reason to contain %q, got %q", substring, c.verdict.Reason)
	}
	return nil
}

func (c *scenarioContext) theCommandSucceeds() error {
	if c.err != nil {
		return fmt.Errorf("expected success but got error: %v", c.err)
	}
	return nil
}

func (c *scenarioContext) theCommandFailsWithKind(kind string) error {
	if c.err == nil {
		return errors.New("expected command to fail but it succeeded")
	}
	if got := domain.Kind(c.err); got != kind {
		return fmt.Errorf("expected kind %s, got %s (%v)", kind, got, c.err)
	}
	return nil
}

func (c *scenarioContext) theErrorMessageContains(substring string) error {
	if c.err == nil {
		return errors.New("expected error but command succeeded")
	}
	if !strings.Contains(c.err.Error(), substring) {
		return fmt.Errorf("expected error message to contain %q, got %q", substring, c.err.Error())
	}
	return nil
}

func (c *scenarioContext) assignedWithScore(code string, score int) error {
	if c.routed == nil {
		return errors.New("no routing result")
	}
	if c.routed.WarehouseCode != code {
		return fmt.Errorf("expected warehouse %s, got %s", code, c.routed.WarehouseCode)
	}
	if c.routed.Score == nil || c.routed.Score.Score != score {
		return fmt.Errorf("expected score %d, got %+v", score, c.routed.Score)
	}
	return nil
}

func (c *scenarioContext) assignedReusing(code string) error {
	if c.routed == nil {
		return errors.New("no routing result")
	}
	if c.routed.WarehouseCode != code {
		return fmt.Errorf("expected warehouse %s, got %s", code, c.routed.WarehouseCode)
	}
	if !c.routed.Reused {
		return errors.New("expected the previous assignment to be reused")
	}
	return nil
}

func (c *scenarioContext) stillHasAssetAvailable(code, assetID string) error {
	entries, err := c.store.Stock().ListAvailable(context.Background(), []string{assetID})
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.WarehouseID == c.warehouses[code] {
			return nil
		}
	}
	return fmt.Errorf("asset %s is no longer available at %s", assetID, code)
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	sc := &scenarioContext{}

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		sc.reset()
		return ctx, nil
	})

	ctx.Step(`^an empty inventory$`, sc.anEmptyInventory)
	ctx.Step(`^asset "([^"]*)" has status "([^"]*)"$`, sc.assetHasStatus)
	ctx.Step(`^warehouse "([^"]*)" in country "([^"]*)" with available assets "([^"]*)"$`, sc.warehouseWithAvailableAssets)
	ctx.Step(`^fulfillment of order "([^"]*)" has started$`, sc.fulfillmentHasStarted)

	ctx.Step(`^I check availability of asset "([^"]*)"$`, sc.iCheckAvailability)
	ctx.Step(`^I reserve asset "([^"]*)" for order "([^"]*)"$`, sc.iReserve)
	ctx.Step(`^I release asset "([^"]*)"$`, sc.iRelease)
	ctx.Step(`^I assign order "([^"]*)" for customer country "([^"]*)" with assets "([^"]*)"$`, sc.iAssignOrder)

	ctx.Step(`^the position of asset "([^"]*)" is unknown$`, sc.thePositionIsUnknown)
	ctx.Step(`^the asset is not available with reason containing "([^"]*)"$`, sc.notAvailableWithReason)
	ctx.Step(`^the command succeeds$`, sc.theCommandSucceeds)
	ctx.Step(`^the command fails with kind "([^"]*)"$`, sc.theCommandFailsWithKind)
	ctx.Step(`^the error message contains "([^"]*)"$`, sc.theErrorMessageContains)
	ctx.Step(`^the order is assigned to warehouse "([^"]*)" with score (\d+)$`, sc.assignedWithScore)
	ctx.Step(`^the order is assigned to warehouse "([^"]*)" reusing the previous assignment$`, sc.assignedReusing)
	ctx.Step(`^warehouse "([^"]*)" still has asset "([^"]*)" available$`, sc.stillHasAssetAvailable)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"inventory_routing.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
