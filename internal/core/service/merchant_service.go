package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avelien/shopkeeper/internal/core/currency"
	"github.com/avelien/shopkeeper/internal/core/domain"
	"github.com/avelien/shopkeeper/internal/port"
)

var (
	ErrNegativeQuantity  = errors.New("negative quantity")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrTargetUnavailable = errors.New("target unavailable")
	ErrDuplicateRequest  = errors.New("duplicate request")
	ErrActorNotFound     = errors.New("actor not found")
	ErrItemNotFound      = errors.New("item not found")
)

// MerchantService runs buy and sell transactions between a merchant and a
// customer: price computation, fund validation, currency movement and the
// inventory transfer itself.
type MerchantService struct {
	store    port.InventoryStore
	settings port.Settings
	notifier port.Notifier
	idem     port.IdempotencyStore
	resolver *currency.Resolver
	log      *zap.Logger
}

func NewMerchantService(
	store port.InventoryStore,
	settings port.Settings,
	notifier port.Notifier,
	idem port.IdempotencyStore,
	resolver *currency.Resolver,
	log *zap.Logger,
) *MerchantService {
	return &MerchantService{
		store:    store,
		settings: settings,
		notifier: notifier,
		idem:     idem,
		resolver: resolver,
		log:      log,
	}
}

// Buy processes one purchase attempt against a merchant's inventory.
//
// The requested quantity is clamped to available stock and to the seller's
// per-transaction stack cap, funds are validated before any mutation, and the
// buyer is debited before items move. Sellers flagged as a pure service skip
// inventory mutation entirely. The merchant is credited the full charged cost
// so the ledger stays balanced.
func (s *MerchantService) Buy(ctx context.Context, req domain.TransactionRequest) (*domain.Receipt, error) {
	calc := s.resolver.Calculator()

	item, err := s.store.GetItem(ctx, req.SellerID, req.ItemID)
	if err != nil {
		s.log.Error("failed to look up stock item",
			zap.String("sellerID", req.SellerID), zap.String("itemID", req.ItemID), zap.Error(err))
		return nil, fmt.Errorf("lookup stock item: %w", err)
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	// Buying more than what's in stock buys all the stock. Unlimited stock
	// never clamps.
	quantity := req.Quantity
	if available := calc.QuantityOf(item); available < quantity {
		quantity = available
	}

	if quantity < 0 {
		s.notifier.Error(ctx, req.BuyerID, port.MsgNegativeQuantity)
		return &domain.Receipt{Status: domain.StatusRejected}, ErrNegativeQuantity
	}
	if quantity == 0 {
		return &domain.Receipt{Status: domain.StatusNoOp}, nil
	}

	flags, err := s.store.GetFlags(ctx, req.SellerID)
	if err != nil {
		s.log.Error("failed to read seller flags", zap.String("sellerID", req.SellerID), zap.Error(err))
		return nil, fmt.Errorf("read seller flags: %w", err)
	}
	if flags == nil {
		flags = &domain.MerchantFlags{}
	}

	modifier := domain.DefaultPriceModifier
	if flags.PriceModifier != nil {
		modifier = *flags.PriceModifier
	}
	if flags.StackModifier != nil && quantity > *flags.StackModifier {
		quantity = *flags.StackModifier
	}

	cost := quote(calc, item, quantity, modifier)

	buyer, err := s.store.GetActor(ctx, req.BuyerID)
	if err != nil {
		s.log.Error("failed to load buyer", zap.String("buyerID", req.BuyerID), zap.Error(err))
		return nil, fmt.Errorf("load buyer: %w", err)
	}
	if buyer == nil {
		return nil, ErrActorNotFound
	}

	ledger := fundsLedger{calc: calc, store: s.store}
	buyerFunds := calc.FundsOf(buyer).Clone()
	if !ledger.Validate(cost, buyerFunds) {
		s.notifier.Error(ctx, req.BuyerID, port.MsgInsufficientFunds)
		return &domain.Receipt{Status: domain.StatusRejected}, ErrInsufficientFunds
	}

	receipt := &domain.Receipt{
		ID:       uuid.NewString(),
		Status:   domain.StatusValidated,
		Quantity: quantity,
		Cost:     cost,
	}

	if err := ledger.Debit(ctx, req.BuyerID, buyerFunds, cost); err != nil {
		s.log.Error("failed to debit buyer", zap.String("buyerID", req.BuyerID), zap.Error(err))
		return nil, err
	}
	receipt.Status = domain.StatusFundsSettled
	receipt.PriceText = calc.FormatPrice(cost)

	if flags.Service {
		// Service listings sell access, not stock; the original listing is
		// reported untouched.
		receipt.Item = item.Clone()
	} else {
		moved, err := s.MoveItems(ctx, req.SellerID, req.BuyerID,
			[]domain.MoveRequest{{ItemID: req.ItemID, Quantity: quantity}}, !flags.KeepDepleted)
		if err != nil {
			s.log.Error("failed to move items",
				zap.String("sellerID", req.SellerID), zap.String("buyerID", req.BuyerID), zap.Error(err))
			return nil, err
		}
		if len(moved) > 0 {
			receipt.Item = moved[0].Item
			receipt.Quantity = moved[0].Quantity
		}
		receipt.Status = domain.StatusItemsMoved
	}

	if err := s.creditSeller(ctx, ledger, req.SellerID, receipt.Cost); err != nil {
		return nil, err
	}

	receipt.Status = domain.StatusCompleted
	s.log.Info("item purchased",
		zap.String("buyerID", req.BuyerID),
		zap.String("sellerID", req.SellerID),
		zap.String("itemID", req.ItemID),
		zap.Float64("quantity", receipt.Quantity),
		zap.String("price", receipt.PriceText))
	return receipt, nil
}

// Sell processes a customer selling stock to the merchant. Proceeds use the
// merchant's buy rate; the merchant's own till is not debited.
func (s *MerchantService) Sell(ctx context.Context, merchantID, customerID, itemID string, quantity float64) (*domain.Receipt, error) {
	calc := s.resolver.Calculator()

	item, err := s.store.GetItem(ctx, customerID, itemID)
	if err != nil {
		return nil, fmt.Errorf("lookup customer item: %w", err)
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	if available := calc.QuantityOf(item); available < quantity {
		quantity = available
	}
	if quantity < 0 {
		s.notifier.Error(ctx, customerID, port.MsgNegativeQuantity)
		return &domain.Receipt{Status: domain.StatusRejected}, ErrNegativeQuantity
	}
	if quantity == 0 {
		return &domain.Receipt{Status: domain.StatusNoOp}, nil
	}

	flags, err := s.store.GetFlags(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("read merchant flags: %w", err)
	}
	buyRate := domain.DefaultBuyModifier
	if flags != nil && flags.BuyModifier != nil {
		buyRate = *flags.BuyModifier
	}

	proceeds := quote(calc, item, quantity, buyRate)

	moved, err := s.MoveItems(ctx, customerID, merchantID,
		[]domain.MoveRequest{{ItemID: itemID, Quantity: quantity}}, true)
	if err != nil {
		s.log.Error("failed to move sold items",
			zap.String("customerID", customerID), zap.String("merchantID", merchantID), zap.Error(err))
		return nil, err
	}

	customer, err := s.store.GetActor(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	if customer == nil {
		return nil, ErrActorNotFound
	}

	ledger := fundsLedger{calc: calc, store: s.store}
	customerFunds := calc.FundsOf(customer).Clone()
	if err := ledger.Credit(ctx, customerID, customerFunds, proceeds); err != nil {
		s.log.Error("failed to credit customer", zap.String("customerID", customerID), zap.Error(err))
		return nil, err
	}

	receipt := &domain.Receipt{
		ID:        uuid.NewString(),
		Status:    domain.StatusCompleted,
		Quantity:  quantity,
		Cost:      proceeds,
		PriceText: calc.FormatPrice(proceeds),
	}
	if len(moved) > 0 {
		receipt.Item = moved[0].Item
		receipt.Quantity = moved[0].Quantity
	}
	s.log.Info("item sold to merchant",
		zap.String("customerID", customerID),
		zap.String("merchantID", merchantID),
		zap.String("itemID", itemID),
		zap.Float64("quantity", receipt.Quantity),
		zap.String("price", receipt.PriceText))
	return receipt, nil
}

// HandleBuyMessage is the entry point for remote buy requests from player
// clients. Redeliveries of a message are dropped through the idempotency
// store, keyed on the client-minted request id so a fresh purchase of the
// same item is never mistaken for a duplicate. A seller token that cannot be
// resolved on the active scene rejects the request before any mutation.
func (s *MerchantService) HandleBuyMessage(ctx context.Context, msg domain.BuyMessage) (*domain.Receipt, error) {
	if msg.Action != domain.BuyAction {
		return nil, nil
	}

	if s.idem != nil && msg.RequestID != "" {
		key := fmt.Sprintf("buy:%s", msg.RequestID)
		ok, err := s.idem.SetIdempotency(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			return nil, ErrDuplicateRequest
		}
	}

	sellerID, err := s.store.ResolveToken(ctx, msg.SellerTokenID)
	if err != nil {
		return nil, fmt.Errorf("resolve seller token: %w", err)
	}
	if sellerID == "" {
		s.log.Warn("seller token not on active scene", zap.String("tokenID", msg.SellerTokenID))
		s.notifier.Error(ctx, msg.BuyerID, port.MsgNoTargetInScene)
		return nil, ErrTargetUnavailable
	}

	return s.Buy(ctx, domain.TransactionRequest{
		SellerID: sellerID,
		BuyerID:  msg.BuyerID,
		ItemID:   msg.ItemID,
		Quantity: msg.Quantity,
	})
}

// InitModifiers seeds a merchant's modifier flags the first time its sheet is
// configured. Already-set values are left alone.
func (s *MerchantService) InitModifiers(ctx context.Context, actorID string) error {
	flags, err := s.store.GetFlags(ctx, actorID)
	if err != nil {
		return fmt.Errorf("read flags: %w", err)
	}
	if flags == nil {
		flags = &domain.MerchantFlags{}
	}

	changed := false
	if flags.PriceModifier == nil {
		v := domain.DefaultPriceModifier
		flags.PriceModifier = &v
		changed = true
	}
	if flags.BuyModifier == nil {
		v := domain.DefaultBuyModifier
		flags.BuyModifier = &v
		changed = true
	}
	if flags.StackModifier == nil {
		v := domain.DefaultStackModifier
		flags.StackModifier = &v
		changed = true
	}
	if !changed {
		return nil
	}
	if err := s.store.SaveFlags(ctx, actorID, flags); err != nil {
		return fmt.Errorf("save flags: %w", err)
	}
	return nil
}

// SetItemQuantity applies a host-validated quantity edit to a listing. The
// unlimited toggle writes the sentinel regardless of the numeric value.
func (s *MerchantService) SetItemQuantity(ctx context.Context, actorID, itemID string, quantity float64, unlimited bool) error {
	if unlimited {
		quantity = domain.Unlimited
	}
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	return s.store.UpdateQuantities(ctx, actorID, []domain.QuantityUpdate{{ItemID: itemID, Quantity: quantity}})
}

// SetItemPrice applies a host-validated price edit to a listing.
func (s *MerchantService) SetItemPrice(ctx context.Context, actorID, itemID string, price domain.Price) error {
	return s.store.UpdatePrice(ctx, actorID, itemID, price)
}

func (s *MerchantService) creditSeller(ctx context.Context, ledger fundsLedger, sellerID string, amount decimal.Decimal) error {
	seller, err := s.store.GetActor(ctx, sellerID)
	if err != nil {
		s.log.Error("failed to load seller for credit", zap.String("sellerID", sellerID), zap.Error(err))
		return fmt.Errorf("load seller: %w", err)
	}
	if seller == nil {
		// Token-only merchants have no funds record to credit.
		s.log.Warn("seller has no actor record, skipping credit", zap.String("sellerID", sellerID))
		return nil
	}
	sellerFunds := ledger.calc.FundsOf(seller).Clone()
	if err := ledger.Credit(ctx, sellerID, sellerFunds, amount); err != nil {
		s.log.Error("failed to credit seller", zap.String("sellerID", sellerID), zap.Error(err))
		return err
	}
	return nil
}
