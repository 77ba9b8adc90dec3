// Package models defines the wire types exchanged with the ShadowKick movie service.
//
// The package contains two groups of types:
//
// 1. Catalogue entities, read-only from the client's point of view
//   - [Movie] : A catalogue entry with embedded [Genre] and [Director]
//   - [Genre] : Name and description; decodes from a bare name string as well
//   - [Director] : Name, biography and life dates
//
// 2. Account types
//   - [User] : The canonical account record including its [Favourite] list
//   - [Registration], [Credentials] : Request bodies for sign-up and login
//   - [LoginResponse] : Token plus user summary returned by login
//   - [UserUpdate] : Sparse profile update carrying only changed fields
//
// Request bodies carry validator tags; [Validate] checks them before any request is sent.
package models
