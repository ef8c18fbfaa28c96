package service

import (
	"context"
	"fmt"

	"github.com/louisbranch/kingdoms-of-fate/internal/game/domain"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/storage"
	"github.com/louisbranch/kingdoms-of-fate/internal/telemetry"
)

// OpenMerchant stocks the catalog merchant inventory for the session.
func (s *Service) OpenMerchant(ctx context.Context, playerContextID, sessionID string) (storage.Session, []domain.MerchantItem, error) {
	session, err := s.update(ctx, playerContextID, sessionID, func(session *storage.Session) error {
		session.GameState = domain.OpenMerchant(session.GameState, s.catalog.MerchantStock)
		return nil
	})
	if err != nil {
		return storage.Session{}, nil, err
	}
	s.emit(ctx, sessionID, "merchant.open", telemetry.SeverityInfo, "merchant arrived")
	return session, session.GameState.MerchantInventory, nil
}

// PurchaseItem buys the merchant item at index.
func (s *Service) PurchaseItem(ctx context.Context, playerContextID, sessionID string, index int) (storage.Session, domain.MerchantItem, error) {
	var item domain.MerchantItem
	session, err := s.update(ctx, playerContextID, sessionID, func(session *storage.Session) error {
		next, bought, err := domain.PurchaseItem(session.GameState, index)
		if err != nil {
			return err
		}
		session.GameState = next
		item = bought
		return nil
	})
	if err != nil {
		return storage.Session{}, domain.MerchantItem{}, err
	}
	s.emit(ctx, sessionID, "merchant.purchase", telemetry.SeverityInfo, fmt.Sprintf("bought %s for %d gold", item.Name, item.Price))
	return session, item, nil
}
