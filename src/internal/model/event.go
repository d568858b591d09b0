package model

type Event interface {
	GetId() string
}
