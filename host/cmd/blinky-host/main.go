package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"blinky/core"
	"blinky/host/console"
	"blinky/host/gpiomem"
	"blinky/host/logging"
	"blinky/host/periphpin"
	"blinky/host/serial"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, log *logrus.Entry, args []string) error
}

var commands = []command{
	{"blink", "Blink an LED through the GPIO registers", runBlink},
	{"set", "Drive an output pin high or low", runSet},
	{"get", "Read the level and function of a pin", runGet},
	{"mode", "Select the function of a pin", runMode},
	{"info", "Show the detected board and register addresses", runInfo},
	{"console", "Show the firmware's mini UART log", runConsole},
}

func main() {
	global := flag.NewFlagSet("blinky-host", flag.ExitOnError)
	logging.InitParam(global)
	global.Usage = func() { printHelp(global.Output()) }
	global.Parse(os.Args[1:])

	log := logging.GetLogger(logrus.InfoLevel)
	core.SetDebugWriter(logging.DebugWriter(log))
	core.SetDebugEnabled(log.Logger.IsLevelEnabled(logrus.DebugLevel))

	if global.NArg() == 0 {
		printHelp(os.Stderr)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	name := global.Arg(0)
	for _, cmd := range commands {
		if cmd.name != name {
			continue
		}
		if err := cmd.run(ctx, log.WithField("prefix", name), global.Args()[1:]); err != nil {
			log.WithError(err).Error("Command failed")
			stop()
			os.Exit(1)
		}
		return
	}

	fmt.Fprintf(os.Stderr, "Unknown command: %s\n", name)
	printHelp(os.Stderr)
	os.Exit(2)
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage: blinky-host [-loglevel N] <command> [flags]")
	fmt.Fprintln(w, "\nAvailable commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-8s - %s\n", cmd.name, cmd.usage)
	}
	fmt.Fprintln(w, "\nRun 'blinky-host <command> -h' for the flags of a command.")
}

// gpioFlags are shared by every command that touches the registers
type gpioFlags struct {
	device string
	base   uint
	sim    bool
}

func (g *gpioFlags) register(fs *flag.FlagSet) {
	cfg := gpiomem.DefaultConfig()
	fs.StringVar(&g.device, "device", cfg.Device, "Register device, "+gpiomem.DevGPIOMem+" or "+gpiomem.DevMem)
	fs.UintVar(&g.base, "base", uint(cfg.PeripheralBase), "Peripheral base address, used with "+gpiomem.DevMem)
	fs.BoolVar(&g.sim, "sim", false, "Use simulated registers instead of hardware")
}

// open returns a GPIO driver and a function releasing its registers
func (g *gpioFlags) open(log *logrus.Entry) (*core.GPIO, func(), error) {
	if g.sim {
		log.Warn("Using simulated GPIO registers")
		return core.NewGPIO(core.NewSimGPIO()), func() {}, nil
	}

	regs, err := gpiomem.Open(&gpiomem.Config{Device: g.device, PeripheralBase: uint32(g.base)})
	if err != nil {
		return nil, nil, err
	}
	log.WithField("device", g.device).Debug("Mapped GPIO registers")
	return core.NewGPIO(regs), func() {
		if err := regs.Close(); err != nil {
			log.WithError(err).Warn("Failed to unmap GPIO registers")
		}
	}, nil
}

func runBlink(ctx context.Context, log *logrus.Entry, args []string) error {
	fs := flag.NewFlagSet("blink", flag.ExitOnError)
	var g gpioFlags
	g.register(fs)
	pin := fs.Uint("pin", uint(core.DefaultBlinkPin), "BCM GPIO number of the LED")
	on := fs.Duration("on", 500*time.Millisecond, "Time the LED stays on")
	off := fs.Duration("off", 500*time.Millisecond, "Time the LED stays off")
	count := fs.Int("count", 0, "Number of blinks, 0 blinks until interrupted")
	spin := fs.Bool("spin", false, "Busy-wait like the firmware instead of sleeping")
	fs.Parse(args)

	onMicros, err := micros(*on)
	if err != nil {
		return fmt.Errorf("-on: %w", err)
	}
	offMicros, err := micros(*off)
	if err != nil {
		return fmt.Errorf("-off: %w", err)
	}

	drv, closeRegs, err := g.open(log)
	if err != nil {
		return err
	}
	defer closeRegs()

	b := core.NewBlinker(drv, core.GPIOPin(*pin))
	b.OnMicros = onMicros
	b.OffMicros = offMicros
	if !*spin {
		b.Delay = func(us uint32) {
			select {
			case <-time.After(time.Duration(us) * time.Microsecond):
			case <-ctx.Done():
			}
		}
	}

	log.WithFields(logrus.Fields{"pin": *pin, "on": *on, "off": *off, "count": *count}).Info("Blinking")
	err = b.Run(ctx, *count)
	if errors.Is(err, context.Canceled) {
		// Leave the LED off on interrupt
		if err := drv.SetLow(core.GPIOPin(*pin)); err != nil {
			log.WithError(err).Warn("Failed to switch the LED off")
		}
		log.Info("Interrupted")
		return nil
	}
	return err
}

// micros converts a blink phase to the microseconds the delay takes
func micros(d time.Duration) (uint32, error) {
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", d)
	}
	us := d.Microseconds()
	if us > math.MaxUint32 {
		return 0, fmt.Errorf("duration %s exceeds %s", d, time.Duration(math.MaxUint32)*time.Microsecond)
	}
	return uint32(us), nil
}

func runSet(ctx context.Context, log *logrus.Entry, args []string) error {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	var g gpioFlags
	g.register(fs)
	pin := fs.Uint("pin", uint(core.DefaultBlinkPin), "BCM GPIO number")
	level := fs.String("level", "high", "Output level, high or low")
	fs.Parse(args)

	var l gpio.Level
	switch strings.ToLower(*level) {
	case "high", "1", "on":
		l = gpio.High
	case "low", "0", "off":
		l = gpio.Low
	default:
		return fmt.Errorf("invalid level %q", *level)
	}

	p, release, err := lookupPin(log, &g, *pin)
	if err != nil {
		return err
	}
	defer release()

	if err := p.Out(l); err != nil {
		return fmt.Errorf("failed to drive %s: %w", p, err)
	}
	log.WithFields(logrus.Fields{"pin": p.Name(), "level": l}).Info("Pin driven")
	return nil
}

func runGet(ctx context.Context, log *logrus.Entry, args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	var g gpioFlags
	g.register(fs)
	pin := fs.Uint("pin", uint(core.DefaultBlinkPin), "BCM GPIO number")
	fs.Parse(args)

	p, release, err := lookupPin(log, &g, *pin)
	if err != nil {
		return err
	}
	defer release()

	fmt.Printf("%s: %s (%s)\n", p.Name(), p.Read(), p.Function())
	return nil
}

func runMode(ctx context.Context, log *logrus.Entry, args []string) error {
	fs := flag.NewFlagSet("mode", flag.ExitOnError)
	var g gpioFlags
	g.register(fs)
	pin := fs.Uint("pin", uint(core.DefaultBlinkPin), "BCM GPIO number")
	modeName := fs.String("mode", "out", "Function: in, out, alt0 .. alt5")
	fs.Parse(args)

	mode, err := core.ParsePinMode(*modeName)
	if err != nil {
		return fmt.Errorf("%q: %w", *modeName, err)
	}

	drv, closeRegs, err := g.open(log)
	if err != nil {
		return err
	}
	defer closeRegs()

	if err := drv.SetMode(core.GPIOPin(*pin), mode); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"pin": *pin, "mode": mode}).Info("Pin function selected")
	return nil
}

func runInfo(ctx context.Context, log *logrus.Entry, args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)

	board := gpiomem.Detect()
	model := board.Model
	if model == "" {
		model = "unknown (assuming Pi 3)"
	}
	fmt.Printf("Model:           %s\n", model)
	if !board.Supported {
		fmt.Println("GPIO:            not a BCM283x GPIO block, unsupported")
		return nil
	}
	fmt.Printf("Peripheral base: %s\n", core.Hex32(board.PeripheralBase))
	fmt.Printf("GPIO base:       %s\n", core.Hex32(board.GPIOBase()))
	fmt.Printf("Aux base:        %s\n", core.Hex32(board.PeripheralBase+core.AuxBlockOffset))
	return nil
}

func runConsole(ctx context.Context, log *logrus.Entry, args []string) error {
	fs := flag.NewFlagSet("console", flag.ExitOnError)
	device := fs.String("device", "/dev/ttyUSB0", "Serial device wired to GPIO 14/15")
	baud := fs.Int("baud", serial.DefaultBaud, "Baud rate")
	fs.Parse(args)

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	c, err := console.Connect(cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()

	log.WithField("device", *device).Info("Connected, press Ctrl-C to exit")
	return c.Log(ctx)
}

// lookupPin maps the registers, registers them with periph and returns the pin by name
func lookupPin(log *logrus.Entry, g *gpioFlags, n uint) (gpio.PinIO, func(), error) {
	if n >= core.NumPins {
		return nil, nil, &core.InvalidPinError{Pin: core.GPIOPin(n)}
	}

	drv, closeRegs, err := g.open(log)
	if err != nil {
		return nil, nil, err
	}
	if err := periphpin.Register(drv); err != nil {
		closeRegs()
		return nil, nil, err
	}
	release := func() {
		periphpin.Unregister()
		closeRegs()
	}

	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", n))
	if p == nil {
		release()
		return nil, nil, fmt.Errorf("GPIO%d not registered", n)
	}
	return p, release, nil
}
