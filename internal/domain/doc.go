// Package domain contains the core entities of the task tracker: user
// accounts with their live session list, and the tasks they own. It holds
// the field invariants and the whitelist-based partial update rules, and is
// independent of any storage or delivery mechanism.
package domain
