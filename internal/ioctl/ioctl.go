// Package ioctl encodes and issues Linux ioctl requests for the spidev driver.
package ioctl

import (
	"fmt"
	"os"
	"reflect"
	"syscall"
)

// Direction of the data transfer encoded in a request.
type Direction uint8

// Directions, as seen from user space.
const (
	None Direction = iota
	Write
	Read
)

// Request is an encoded ioctl request number: direction (2 bits), argument
// size (14 bits), type and number (16 bits).
type Request uintptr

// Direction of the transfer.
func (r Request) Direction() Direction { return Direction(r >> 30 & 0x03) }

// Size of the argument in bytes.
func (r Request) Size() int { return int(r >> 16 & 0x3fff) }

func (r Request) String() string {
	var dir string
	switch r.Direction() {
	case Write:
		dir = "write"
	case Read:
		dir = "read"
	case Write | Read:
		dir = "read/write"
	default:
		dir = "none"
	}
	return fmt.Sprintf("ioctl %s %d bytes 0x%04x", dir, r.Size(), uintptr(r&0xffff))
}

// Encode a request.
func Encode(dir Direction, size uint16, nr uintptr) Request {
	return Request(dir)<<30 | Request(size&0x3fff)<<16 | Request(nr&0xffff)
}

// Pointer encodes a request whose argument is the value ref points to.
func Pointer(dir Direction, ref any, nr uintptr) Request {
	return Encode(dir, uint16(reflect.TypeOf(ref).Elem().Size()), nr)
}

// Do issues the request on fd. ptr must be a pointer or nil.
func Do(fd uintptr, req Request, ptr any) error {
	var arg uintptr
	if ptr != nil {
		arg = reflect.ValueOf(ptr).Pointer()
	}
	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd, uintptr(req), arg); errno != 0 {
		return fmt.Errorf("%s: %w", req, os.NewSyscallError("ioctl", errno))
	}
	return nil
}
