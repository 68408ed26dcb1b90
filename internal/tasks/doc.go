// package tasks implements the upload lifecycle shared by every predictx front end.
//
// [UploadController] owns one [models.State] and mediates the single call to the prediction service.
// A submission is split in three steps so event-loop front ends can run the network call off their loop:
//
//  1. [UploadController.Begin] : synchronous; moves to Loading, releases the previous result, returns an [Upload]
//  2. [Upload.Do] : blocking; performs the HTTP call without touching controller state
//  3. [UploadController.Complete] : synchronous; applies the [Outcome] exactly once
//
// [UploadController.Submit] runs all three in order for callers that can simply block.
// There are no retries, no cancellation and no timeout.
package tasks
