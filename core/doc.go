// Package core defines the domain model, collaborator contracts, error
// taxonomy, and configuration shared by the listing lifecycle packages.
//
// The remote marketplace is the single source of truth for listing state:
// nothing in this package caches offer or listing status locally, and every
// lifecycle decision is made against a fresh remote read.
package core
