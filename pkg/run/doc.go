// Package run turns a design into an experiment run.
//
// A run is submitted as a form with the field names below (the same names the
// browser front end posts to /go):
//
//	designText, resolutionX, resolutionY,
//	trialBodyLength, trialHeadLength, trialTailLength, trialRepeats,
//	cue, backgroundImageDataUrl, patchShape
//
// [FromForm] reads such a form, and [Request.Validate] reports every bad field
// at once as an [errors.FieldErrors] map, which is also the JSON body a
// rejected submission gets back.
//
// Each trial lasts head+body+tail seconds and is repeated trialRepeats times.
// The cue names the patch the subject attends to during the head phase:
// "!Random" draws one patch per trial, "!NoCue" shows none.
//
// [Queue] is the receiving end used by the server. It plans cues, keeps
// accepted runs in FIFO order and reports progress through [Status]. Drawing
// the stimulus is left to a [Presenter].
//
// [Client] submits runs to a remote server.
package run
