// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services never talk HTTP themselves and never cache backend resources;
// the backend stays authoritative for every store and document.
package services
