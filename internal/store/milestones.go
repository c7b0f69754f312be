package store

import (
	"context"
	"fmt"

	"storefront-service/internal/models"
)

// GetDeliveryMilestones retrieves the configured delivery tiers in
// ascending threshold order. Values come back as text so the resolver
// can apply its defensive decimal parsing uniformly.
func (s *Store) GetDeliveryMilestones(ctx context.Context) ([]models.DeliveryMilestone, error) {
	var milestones []models.DeliveryMilestone
	query := `
		SELECT min_order_value::text AS min_order_value,
		       delivery_charge::text AS delivery_charge,
		       COALESCE(surcharge::text, '') AS surcharge
		FROM delivery_milestones
		ORDER BY min_order_value`

	if err := s.db.SelectContext(ctx, &milestones, query); err != nil {
		return nil, fmt.Errorf("failed to load delivery milestones: %w", err)
	}
	return milestones, nil
}

// ReplaceDeliveryMilestones swaps the full milestone configuration in
// one transaction
func (s *Store) ReplaceDeliveryMilestones(ctx context.Context, milestones []models.DeliveryMilestone) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM delivery_milestones"); err != nil {
		return fmt.Errorf("failed to clear delivery milestones: %w", err)
	}

	for _, m := range milestones {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO delivery_milestones (min_order_value, delivery_charge, surcharge) VALUES ($1, $2, NULLIF($3, ''))",
			m.MinOrderValue, m.DeliveryCharge, m.Surcharge)
		if err != nil {
			return fmt.Errorf("failed to insert delivery milestone: %w", err)
		}
	}

	return tx.Commit()
}
