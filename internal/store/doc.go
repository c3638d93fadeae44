// Package store defines the document-style persistence contracts for the
// users and tasks collections. Business rules stay in the service layer;
// implementations live under internal/platform.
package store
