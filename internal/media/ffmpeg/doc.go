// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package ffmpeg models the two external-tool invocations audiobench needs
// (demuxer concatenation with stream copy, two-input amix) as data, renders
// them into argument lists through a single builder, and runs them as
// subprocesses behind the Runner interface.
package ffmpeg
