// Package ecs provides ECS adapters for grove.
//
// The primary adapter is [NewDonburiStore], which bridges grove bounds
// changes into a [Donburi] world as typed events. Track nodes on the scene and
// subscribe to [BoundsChangeEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//	scene.Track(node, grove.BoundsTotal)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
