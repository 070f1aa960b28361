// Package assist implements the query orchestration pipeline of the Arash
// financial assistant: it extracts instrument identifiers from free text,
// fetches market data and news for them, and assembles a bounded structured
// context for the reasoning engine.
//
// The package is provider-agnostic: concrete market and news providers live in
// the yahoo and ddg subpackages, and the reasoning engine lives in agent.
package assist
