// Package ownmanual provides a small toolchain for turning a vehicle's
// online owner's manual into a single self-contained offline HTML file.
// It downloads every topic of the manual from the vendor's web API using
// session cookies, saves content and images locally, and renders the
// result as one HTML document with embedded images and a navigation
// sidebar.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., sqlite/,
// goquery/, http/).
package ownmanual
