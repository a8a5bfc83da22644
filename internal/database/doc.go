// Package database provides the PostgreSQL connection pool, schema setup,
// and the want-list store.
//
// Tables:
//   - cache_entries: durable cache tier, unique by key
//   - want_list_items: standing want-list requests
//   - want_list_matches: listings found per item, unique by
//     (want_list_item_id, provider_item_id)
package database
