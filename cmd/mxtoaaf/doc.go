// Package main hosts the MXToAAF CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into batch
// conversions, dependency and path status reports, run history listings, and
// configuration scaffolding. It centralizes configuration resolution and
// structured logging setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: conversion logic lives in internal/batch and its
// collaborators; commands here only resolve options, start work in the
// background, and render progress and results.
package main
