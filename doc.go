// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package scenelink streams live edits of a 3D scene from an authoring process
// to a viewer process through shared memory.
// It consists of the following parts:
//	shm     - named shared memory objects (unix)
//	mmf     - memory mapped regions over those objects
//	sync    - an interprocess mutex (futex on linux, polling elsewhere)
//	channel - a single-producer single-consumer framed byte ring placed into shared memory
//	wire    - fixed-layout scene change records sent through the channel
//	scene   - the producer side: scene events are encoded and sent with retries
//	viewer  - the consumer side: records are received and applied to an in-memory scene
// The channel provides no acknowledgement, no encryption and no recovery
// if a peer dies while holding the shared lock.
package scenelink
