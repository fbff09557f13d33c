//go:build linux

package input

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux input event codes used by the virtual pointer
const (
	evSyn = 0x00
	evKey = 0x01
	evRel = 0x02
	evAbs = 0x03

	synReport = 0x00

	btnLeft   = 0x110
	btnRight  = 0x111
	btnMiddle = 0x112

	relWheel = 0x08

	absX   = 0x00
	absY   = 0x01
	absCnt = 0x40

	busVirtual = 0x06
)

// ioctl request encoding (Linux _IOC macro)
const (
	iocNRShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30

	iocNone  = 0
	iocWrite = 1
)

func ioc(dir, typ, nr, size uint32) uintptr {
	return uintptr(dir<<iocDirShift | typ<<iocTypeShift | nr<<iocNRShift | size<<iocSizeShift)
}

var (
	uiDevCreate  = ioc(iocNone, 'U', 1, 0)
	uiDevDestroy = ioc(iocNone, 'U', 2, 0)
	uiSetEvBit   = ioc(iocWrite, 'U', 100, uint32(unsafe.Sizeof(int32(0))))
	uiSetKeyBit  = ioc(iocWrite, 'U', 101, uint32(unsafe.Sizeof(int32(0))))
	uiSetRelBit  = ioc(iocWrite, 'U', 102, uint32(unsafe.Sizeof(int32(0))))
	uiSetAbsBit  = ioc(iocWrite, 'U', 103, uint32(unsafe.Sizeof(int32(0))))
)

const uinputPath = "/dev/uinput"

// inputEvent mirrors struct input_event
type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// userDev mirrors the legacy struct uinput_user_dev setup block
type userDev struct {
	Name         [80]byte
	BusType      uint16
	Vendor       uint16
	Product      uint16
	Version      uint16
	FFEffectsMax uint32
	AbsMax       [absCnt]int32
	AbsMin       [absCnt]int32
	AbsFuzz      [absCnt]int32
	AbsFlat      [absCnt]int32
}

// Uinput is a virtual absolute pointer created through /dev/uinput.
// The kernel cannot report the cursor position back, so the last position
// written is tracked here.
type Uinput struct {
	mu     sync.Mutex
	f      *os.File
	width  int
	height int
	x, y   int
}

func newUinput(opts Options) (Actuator, error) {
	w, h := opts.screen()

	f, err := os.OpenFile(uinputPath, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", uinputPath, err)
	}
	fd := f.Fd()

	setup := []struct {
		req uintptr
		val uintptr
	}{
		{uiSetEvBit, evSyn},
		{uiSetEvBit, evKey},
		{uiSetEvBit, evRel},
		{uiSetEvBit, evAbs},
		{uiSetKeyBit, btnLeft},
		{uiSetKeyBit, btnRight},
		{uiSetKeyBit, btnMiddle},
		{uiSetRelBit, relWheel},
		{uiSetAbsBit, absX},
		{uiSetAbsBit, absY},
	}
	for _, s := range setup {
		if err := ioctl(fd, s.req, s.val); err != nil {
			f.Close()
			return nil, fmt.Errorf("uinput setup: %w", err)
		}
	}

	var dev userDev
	copy(dev.Name[:], "mobilemouse virtual pointer")
	dev.BusType = busVirtual
	dev.Vendor = 0x1209
	dev.Product = 0x0001
	dev.Version = 1
	dev.AbsMax[absX] = int32(w - 1)
	dev.AbsMax[absY] = int32(h - 1)

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, &dev); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return nil, fmt.Errorf("uinput device setup: %w", err)
	}
	if err := ioctl(fd, uiDevCreate, 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("uinput create: %w", err)
	}

	// udev needs a moment to pick up the new device before events are delivered
	time.Sleep(200 * time.Millisecond)

	u := &Uinput{f: f, width: w, height: h}
	if err := u.MoveTo(w/2, h/2); err != nil {
		u.Close()
		return nil, err
	}
	return u, nil
}

func ioctl(fd, req, arg uintptr) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, arg); errno != 0 {
		return errno
	}
	return nil
}

// emit writes the events followed by a SYN_REPORT. Caller holds u.mu.
func (u *Uinput) emit(events ...inputEvent) error {
	events = append(events, inputEvent{Type: evSyn, Code: synReport})
	var buf bytes.Buffer
	for i := range events {
		if err := binary.Write(&buf, binary.NativeEndian, &events[i]); err != nil {
			return err
		}
	}
	_, err := u.f.Write(buf.Bytes())
	return err
}

func buttonCode(b Button) (uint16, error) {
	switch b {
	case ButtonLeft:
		return btnLeft, nil
	case ButtonRight:
		return btnRight, nil
	case ButtonMiddle:
		return btnMiddle, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidButton, b)
}

func (u *Uinput) MoveTo(x, y int) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.emit(
		inputEvent{Type: evAbs, Code: absX, Value: int32(x)},
		inputEvent{Type: evAbs, Code: absY, Value: int32(y)},
	); err != nil {
		return err
	}
	u.x, u.y = x, y
	return nil
}

func (u *Uinput) press(b Button, value int32) error {
	code, err := buttonCode(b)
	if err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.emit(inputEvent{Type: evKey, Code: code, Value: value})
}

func (u *Uinput) MouseDown(b Button) error { return u.press(b, 1) }
func (u *Uinput) MouseUp(b Button) error   { return u.press(b, 0) }

func (u *Uinput) Click(b Button) error {
	if err := u.MouseDown(b); err != nil {
		return err
	}
	return u.MouseUp(b)
}

func (u *Uinput) DoubleClick(b Button) error {
	if err := u.Click(b); err != nil {
		return err
	}
	return u.Click(b)
}

func (u *Uinput) Scroll(amount int) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.emit(inputEvent{Type: evRel, Code: relWheel, Value: int32(amount)})
}

func (u *Uinput) Position() (int, int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.x, u.y
}

func (u *Uinput) ScreenSize() (int, int) {
	return u.width, u.height
}

// Close destroys the virtual device
func (u *Uinput) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	_ = ioctl(u.f.Fd(), uiDevDestroy, 0)
	return u.f.Close()
}
