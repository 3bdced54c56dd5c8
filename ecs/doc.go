// Package ecs provides ECS adapters for posepaint's gesture events.
//
// The primary adapter is [NewDonburiSink], which bridges session gesture
// events (hands up, hands down, firework triggers, mode changes) into a
// [Donburi] world as typed events. Subscribe to [GestureEventType] in your
// ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	session.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
