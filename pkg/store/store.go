package store

// Store is an interface for managing members, trees and their contents.
type Store interface {
	UserStore
	TreeStore
	EditorStore
	PersonStore
	RelationshipStore
	LoginCodeStore
}
