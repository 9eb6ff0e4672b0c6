// Package engine holds the marketplace decision rules: crop and fertilizer
// recommendation, simulated disease lookup, irrigation advice, listing
// categories and order settlement arithmetic. Everything here is free of I/O;
// callers own persistence.
package engine
