// Package domain contains the core business entities of the task tracker:
// projects, their members, tasks and notes. Entities carry their own
// validation rules and are independent of storage and transport.
package domain
