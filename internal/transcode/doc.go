// Package transcode locates and drives the external ffmpeg binary that turns
// compressed music into the intermediate PCM WAV embedded in AAF containers.
//
// A Resolver finds ffmpeg once per process, preferring the copy bundled under
// <application base>/binaries over the one on PATH. The Bridge builds a
// normalized invocation (forced sample rate, channel count, and 16-bit or
// 24-bit little-endian PCM in a plain WAV container), classifies failures into
// typed errors, and verifies that the produced file is present and plausibly
// sized before returning. Every call is independent: there are no retries and
// no timeouts, and a call that has started runs to completion even if the
// caller's context is cancelled.
package transcode
