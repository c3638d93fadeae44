// Package testdb provides helpers for tests that run against a real
// PostgreSQL database.
//
// Tests using this package are skipped unless TASKR_TEST_DATABASE_URL is
// set. The schema is migrated with the same embedded migrations the
// service uses, and both tables are truncated before each test so tests
// never observe each other's rows.
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//		db := testdb.GetTestDB(t)
//		users := postgres.NewUserStore(db, nil)
//		// ...
//	}
package testdb
