// Package actions applies side effects to matched resources.
//
// Run drives an ordered action sequence and interprets each action's Step.
// The built-in actions (echo, write, copy, move, rename, delete) register
// themselves with the registry package and all honour simulate mode: they
// report what they would do and update the resource path, but leave the
// filesystem untouched.
package actions
