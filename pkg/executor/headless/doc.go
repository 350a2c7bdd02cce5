// Package headless runs a scripted session without a microphone or overlay.
//
// A script is a YAML file listing commands exactly as they would be spoken.
// Each command goes through the same grammar and plan fallback as a voice
// session; when a command asks the user to pick between options, the step's
// choose field answers for them. Useful for smoke-testing a site flow and
// for reproducing a failing command.
//
// Example script:
//
//	name: docs smoke test
//	start_url: https://www.w3schools.com
//	stop_on_failure: true
//	steps:
//	  - command: search html
//	  - command: click item html tutorial
//	    choose: 1
//	  - command: summarize
//
// Artifacts:
//
// The artifact writer generates execution reports:
// - execution.json: Full execution summary
// - summary.md: Human-readable markdown summary
package headless
