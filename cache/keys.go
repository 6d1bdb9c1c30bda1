package cache

import (
	"context"
	"fmt"
	"strings"
)

const (
	MealsKey         = "meals:list"
	WeeksKey         = "weeks:list"
	NeighborhoodsKey = "neighborhoods:list"
	adminOrdersRoot  = "admin:orders:"
	weekMenuRoot     = "week:"
)

func MealKey(id uint) string           { return fmt.Sprintf("meal:%d", id) }
func WeekMenuKey(id uint) string       { return fmt.Sprintf("week:%d:menu", id) }
func OrderKey(id uint) string          { return fmt.Sprintf("order:%d", id) }
func UserOrdersKey(userID uint) string { return fmt.Sprintf("orders:user:%d", userID) }

// AdminOrdersKey names one page of the admin order list. weekID 0 means all weeks.
func AdminOrdersKey(weekID uint, status string, page, limit int, sort string) string {
	return fmt.Sprintf("%sweek=%d:status=%s:page=%d:limit=%d:sort=%s", adminOrdersRoot, weekID, status, page, limit, sort)
}

// OrderChanged drops everything derived from one order: its own entry, the owner's list and
// the admin pages that can contain it (its week and the unfiltered listing).
func (c *Cache) OrderChanged(ctx context.Context, orderID, userID, weekID uint) {
	c.Invalidate(ctx, OrderKey(orderID), UserOrdersKey(userID))
	c.AdminOrdersChanged(ctx, weekID)
}

func (c *Cache) AdminOrdersChanged(ctx context.Context, weekID uint) {
	own := fmt.Sprintf("%sweek=%d:", adminOrdersRoot, weekID)
	all := adminOrdersRoot + "week=0:"
	c.InvalidateWhere(ctx, adminOrdersRoot, func(key string) bool {
		return strings.HasPrefix(key, own) || strings.HasPrefix(key, all)
	})
}

// MealChanged drops the meal, the catalogue and every week menu, since any menu may list it.
func (c *Cache) MealChanged(ctx context.Context, mealID uint) {
	c.Invalidate(ctx, MealKey(mealID), MealsKey)
	c.InvalidateWhere(ctx, weekMenuRoot, func(key string) bool {
		return strings.HasSuffix(key, ":menu")
	})
}

func (c *Cache) WeekChanged(ctx context.Context, weekID uint) {
	c.Invalidate(ctx, WeeksKey, WeekMenuKey(weekID))
}

func (c *Cache) NeighborhoodsChanged(ctx context.Context) {
	c.Invalidate(ctx, NeighborhoodsKey)
}
