// Package common holds the behaviour every integration adapter shares:
// configuration and event gating, provider response classification and the
// text helpers used to render run summaries.
package common
