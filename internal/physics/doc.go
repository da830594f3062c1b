// Package physics holds the interactive experiments. Each one implements
// [dynamo.Simulation] and derives its motion as a [dynamo.SecondOrder]
// system stepped with the kinematic Euler integrator:
//
//   - [WorkEnergy]: a block pushed along a rough track
//   - [Projectile]: launch speed and angle under gravity
//   - [Spring]: a damped horizontal spring-mass oscillator
package physics
