package fleet

import (
	"context"
	"net/http"
	"time"

	"farmview-proxy/internal/apiclient"
	"farmview-proxy/internal/model"
)

const (
	serversList     = "/api/servers/get_servers"
	serversOverview = "/api/servers/overview"
)

func serverPath(id int) string { return "/api/servers/" + itoa(id) }

// PowerTimeout is the budget for BMC power calls.
const PowerTimeout = 30 * time.Second

// Server is one physical host.
type Server struct {
	ServerID           int    `json:"server_id"`
	ServerName         string `json:"server_name,omitempty"`
	Architecture       string `json:"architecture,omitempty"`
	ProductName        string `json:"product_name,omitempty"`
	Manufacturer       string `json:"manufacturer,omitempty"`
	SerialNumber       string `json:"serial_number,omitempty"`
	BIOSVendor         string `json:"bios_vendor,omitempty"`
	BIOSVersion        string `json:"bios_version,omitempty"`
	BMCIPAddress       string `json:"bmc_ip_address,omitempty"`
	BMCMACAddress      string `json:"bmc_mac_address,omitempty"`
	BMCFirmwareVersion string `json:"bmc_firmware_version,omitempty"`
	ServerType         string `json:"server_type,omitempty"`
	Status             string `json:"status,omitempty"`
	EnvironmentType    string `json:"environment_type,omitempty"`
	ClusterID          int    `json:"cluster_id,omitempty"`
	DataCenterID       int    `json:"data_center_id,omitempty"`
	RackID             int    `json:"rack_id,omitempty"`
	RackPositionID     int    `json:"rack_position_id,omitempty"`
	LastInventoryAt    string `json:"last_inventory_at,omitempty"`
	AgentVersion       string `json:"agent_version,omitempty"`
	CreatedAt          string `json:"created_at,omitempty"`
	UpdatedAt          string `json:"updated_at,omitempty"`
	Notes              string `json:"notes,omitempty"`
	State              string `json:"state,omitempty"`
	Stage              string `json:"stage,omitempty"`
}

// Servers reads and manages physical servers.
type Servers struct {
	c *apiclient.Client
}

// List returns every server.
func (s *Servers) List(ctx context.Context) []Server {
	return fetchData(ctx, s.c, serversList, []Server{}, "Failed to fetch servers")
}

// Get returns one server, or nil when id is not numeric or the call fails.
func (s *Servers) Get(ctx context.Context, id string) *Server {
	return apiclient.GetEntityByID[Server](ctx, s.c, serverPath, id, "server")
}

// Overview returns fleet-wide server statistics.
func (s *Servers) Overview(ctx context.Context) Overview {
	return fetchData(ctx, s.c, serversOverview, Overview{}, "Failed to fetch server overview")
}

// Update applies changes to a server.
func (s *Servers) Update(ctx context.Context, id int, changes map[string]any) *model.Envelope[Server] {
	return update[Server](ctx, s.c, serverPath(id), changes, "Failed to update server")
}

// Page returns one page of servers.
func (s *Servers) Page(ctx context.Context, req apiclient.PageRequest) model.Page[Server] {
	return apiclient.Paginated[Server](ctx, s.c, serversList, req, "servers")
}

// PowerAction is a BMC power command.
type PowerAction string

// Power commands.
const (
	PowerOn      PowerAction = "on"
	PowerOff     PowerAction = "off"
	Restart      PowerAction = "restart"
	ForceOff     PowerAction = "force-off"
	ForceRestart PowerAction = "force-restart"
)

var powerFailures = map[PowerAction]string{
	PowerOn:      "Failed to power on server",
	PowerOff:     "Failed to power off server",
	Restart:      "Failed to restart server",
	ForceOff:     "Failed to force power off server",
	ForceRestart: "Failed to force restart server",
}

// Valid reports whether a is a known power command.
func (a PowerAction) Valid() bool {
	_, ok := powerFailures[a]
	return ok
}

// PowerState is the data member of power responses.
type PowerState struct {
	ServerID   int    `json:"server_id"`
	Message    string `json:"message,omitempty"`
	PowerState string `json:"power_state,omitempty"`
}

// PowerResult reports a power call. On failure Success is false and Error
// holds the reason.
type PowerResult struct {
	Success bool        `json:"success"`
	Data    *PowerState `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Power sends a power command to the server's BMC.
func (s *Servers) Power(ctx context.Context, id int, action PowerAction) PowerResult {
	return s.power(ctx, http.MethodPost, serverPath(id)+"/power/"+string(action), powerFailures[action])
}

// PowerOn powers the server on.
func (s *Servers) PowerOn(ctx context.Context, id int) PowerResult {
	return s.Power(ctx, id, PowerOn)
}

// PowerOff shuts the server down gracefully.
func (s *Servers) PowerOff(ctx context.Context, id int) PowerResult {
	return s.Power(ctx, id, PowerOff)
}

// Restart reboots the server gracefully.
func (s *Servers) Restart(ctx context.Context, id int) PowerResult {
	return s.Power(ctx, id, Restart)
}

// ForceOff cuts power to the server.
func (s *Servers) ForceOff(ctx context.Context, id int) PowerResult {
	return s.Power(ctx, id, ForceOff)
}

// ForceRestart resets the server.
func (s *Servers) ForceRestart(ctx context.Context, id int) PowerResult {
	return s.Power(ctx, id, ForceRestart)
}

// PowerStatus reads the server's power state from its BMC.
func (s *Servers) PowerStatus(ctx context.Context, id int) PowerResult {
	return s.power(ctx, http.MethodGet, serverPath(id)+"/power/status", "Failed to get server power status")
}

func (s *Servers) power(ctx context.Context, method, endpoint, failure string) PowerResult {
	var res PowerResult
	err := s.c.Request(ctx, endpoint, apiclient.Options{Method: method, Timeout: PowerTimeout}, &res)
	if err != nil {
		if s.c.Logger != nil {
			s.c.Logger.Error(failure, "err", err)
		}
		return PowerResult{Success: false, Error: err.Error()}
	}
	return res
}
