// Command pmcconsole is a line-oriented debug console for a PM instance: it
// issues FSM requests and configuration changes and prints snapshots, the
// same role the fleet's other command-line tools play against a running
// controller over a serial or TCP link.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/google/shlex"

	"github.com/phobia-rc/pmc/pmc"
)

func main() {
	pm := pmc.New(30000, 1000, func(xA, xB, xC uint32) {})

	fmt.Println("pmcconsole — type 'help' for commands, 'quit' to exit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}

		args, err := shlex.Split(scanner.Text())
		if err != nil {
			fmt.Println("parse error:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		if err := dispatch(pm, args); err != nil {
			fmt.Println("error:", err)
		}
	}
}

func dispatch(pm *pmc.PM, args []string) error {
	switch args[0] {
	case "quit", "exit":
		os.Exit(0)

	case "help":
		fmt.Println(`commands:
  impedance | calibrate | spinup | break   request an FSM transition
                                           (impedance/calibrate/spinup pass through DRIFT first)
  motor R Ld Lq E Zp J U                  set motor parameters
  gains kP kI                             set current loop gains
  speed wSP wKP wKI wIMax                 set speed loop and setpoint
  mode ekf|speed|efficient on|off         toggle a mode bit
  snapshot                                print the current state
  quit`)

	case "impedance", "calibrate", "spinup", "break":
		pm.RequestState(requestFor(args[0]))

	case "motor":
		vals, err := parseFloats(args[1:], 7)
		if err != nil {
			return err
		}
		pm.SetMotorParams(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6])

	case "gains":
		vals, err := parseFloats(args[1:], 2)
		if err != nil {
			return err
		}
		pm.SetCurrentGains(vals[0], vals[1])

	case "speed":
		vals, err := parseFloats(args[1:], 4)
		if err != nil {
			return err
		}
		pm.SetSpeedGains(vals[1], vals[2], vals[3])
		pm.SetSpeedSetpoint(vals[0])

	case "mode":
		return dispatchMode(pm, args[1:])

	case "snapshot":
		printSnapshot(pm.Snapshot())

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}

func requestFor(name string) pmc.Request {
	switch name {
	case "impedance":
		return pmc.ReqImpedance
	case "calibrate":
		return pmc.ReqCalibrate
	case "spinup":
		return pmc.ReqSpinup
	case "break":
		return pmc.ReqBreak
	default:
		return pmc.ReqNull
	}
}

func dispatchMode(pm *pmc.PM, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: mode ekf|speed|efficient on|off")
	}
	var bit uint32
	switch args[0] {
	case "ekf":
		bit = pmc.ModeEKF6xBase
	case "speed":
		bit = pmc.ModeSpeedControlLoop
	case "efficient":
		bit = pmc.ModeEfficientModulation
	default:
		return fmt.Errorf("unknown mode %q", args[0])
	}
	pm.SetMode(bit, args[1] == "on")
	return nil
}

func parseFloats(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	vals := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("arg %d: %w", i, err)
		}
		vals[i] = v
	}
	return vals, nil
}

func printSnapshot(s pmc.Snapshot) {
	fmt.Printf("state=%s/%d mode=%#x id=%.4f iq=%.4f theta=%.4f omega=%.2f m=%.4f e=%.4f u=%.2f\n",
		s.State, s.SubState, s.ModeBits, s.ID, s.IQ, s.Theta, s.Omega, s.M, s.E, s.U)
}
