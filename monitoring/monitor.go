// Package monitoring serves the result of a finished simulation over HTTP.
package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/samber/lo"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/intersim/arbitration"
	"github.com/sarchlab/intersim/monitoring/web"
	"github.com/sarchlab/intersim/simulation"
	"github.com/sarchlab/intersim/traffic"
)

// Monitor turns the result of a simulation into a read-only web server.
type Monitor struct {
	result     *simulation.Result
	portNumber int
	server     *http.Server
}

// NewMonitor creates a new Monitor over a finished simulation.
func NewMonitor(result *simulation.Result) *Monitor {
	return &Monitor{result: result}
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 pick
// a random port instead.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the report server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// Handler returns the router that serves the API and the result page.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/now", m.now).Methods(http.MethodGet)
	r.HandleFunc("/api/services", m.listServices).Methods(http.MethodGet)
	r.HandleFunc("/api/statistics", m.statistics).Methods(http.MethodGet)
	r.HandleFunc("/api/arbiter", m.arbiterDetails).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", m.listResources).Methods(http.MethodGet)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts serving in the background and returns the URL of the
// server.
func (m *Monitor) StartServer() (string, error) {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.portNumber))
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Serving simulation results with %s\n", url)

	m.server = &http.Server{Handler: m.Handler()}

	go func() {
		err := m.server.Serve(listener)
		if !errors.Is(err, http.ErrServerClosed) {
			dieOnErr(err)
		}
	}()

	return url, nil
}

// StopServer shuts the server down.
func (m *Monitor) StopServer(ctx context.Context) error {
	if m.server == nil {
		return nil
	}

	return m.server.Shutdown(ctx)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"now\":%.10f}", m.result.Clock)
}

type serviceRsp struct {
	Round     int     `json:"round"`
	ID        string  `json:"id"`
	Direction string  `json:"direction"`
	Turn      string  `json:"turn"`
	Arrival   float64 `json:"arrival"`
	Entry     float64 `json:"entry"`
	Exit      float64 `json:"exit"`
	Wait      float64 `json:"wait"`
}

func (m *Monitor) listServices(w http.ResponseWriter, r *http.Request) {
	direction, limit, offset, err := servicesParseParams(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	services := m.result.Services
	if direction != 0 {
		services = lo.Filter(services, func(s arbitration.Service, _ int) bool {
			return s.Arrival.Direction == direction
		})
	}

	services = lo.Drop(services, offset)
	if limit > 0 && limit < len(services) {
		services = services[:limit]
	}

	rsp := lo.Map(services, func(s arbitration.Service, _ int) serviceRsp {
		return serviceRsp{
			Round:     s.Round,
			ID:        s.Arrival.ID,
			Direction: s.Arrival.Direction.String(),
			Turn:      s.Arrival.Turn.String(),
			Arrival:   s.Arrival.Time,
			Entry:     s.Entry,
			Exit:      s.Exit,
			Wait:      s.Wait,
		}
	})

	writeJSON(w, rsp)
}

func servicesParseParams(
	r *http.Request,
) (direction traffic.Direction, limit, offset int, err error) {
	query := r.URL.Query()

	if d := query.Get("direction"); d != "" {
		if len(d) != 1 {
			return 0, 0, 0, fmt.Errorf("%w: %s", traffic.ErrUnknownDirection, d)
		}

		direction, err = traffic.ParseDirection(d[0])
		if err != nil {
			return 0, 0, 0, err
		}
	}

	limit, err = nonNegativeParam(query.Get("limit"))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid limit: %w", err)
	}

	offset, err = nonNegativeParam(query.Get("offset"))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid offset: %w", err)
	}

	return direction, limit, offset, nil
}

func nonNegativeParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}

	if n < 0 {
		return 0, fmt.Errorf("%d is negative", n)
	}

	return n, nil
}

type directionStatsRsp struct {
	Direction string   `json:"direction"`
	Count     int      `json:"count"`
	Average   *float64 `json:"average"`
}

type statisticsRsp struct {
	Directions  []directionStatsRsp `json:"directions"`
	Overall     *float64            `json:"overall"`
	AllServiced bool                `json:"all_serviced"`
	MaxWait     float64             `json:"max_wait"`
}

func (m *Monitor) statistics(w http.ResponseWriter, _ *http.Request) {
	stats := m.result.Statistics

	rsp := statisticsRsp{
		Directions: lo.Map(traffic.Directions[:],
			func(d traffic.Direction, _ int) directionStatsRsp {
				ds := stats.Direction(d)
				return directionStatsRsp{
					Direction: d.Name(),
					Count:     ds.Count,
					Average:   optional(ds.Average()),
				}
			}),
		Overall:     optional(stats.OverallAverage()),
		AllServiced: stats.AllDirectionsServiced(),
		MaxWait:     stats.MaxWait,
	}

	writeJSON(w, rsp)
}

func optional(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}

	return &v
}

func (m *Monitor) arbiterDetails(w http.ResponseWriter, _ *http.Request) {
	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.result.Arbiter)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
