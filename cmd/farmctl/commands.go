package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gosuri/uitable"

	"farmview-proxy/internal/apiclient"
	"farmview-proxy/internal/fleet"
	"farmview-proxy/internal/model"
	"farmview-proxy/internal/search"
)

// ListFlags select one page of a list endpoint.
type ListFlags struct {
	Page    int               `kong:"default='1',help='Page number.'"`
	PerPage int               `kong:"default='15',help='Rows per page.'"`
	Search  []string          `kong:"sep='none',placeholder='EXPR',help='Search criterion such as status=active or OR:cpu_count>=8. Repeatable.'"`
	Filter  map[string]string `kong:"mapsep='none',placeholder='KEY=VALUE',help='Extra query filter. Repeatable.'"`
}

func (f ListFlags) request() (apiclient.PageRequest, error) {
	criteria, err := search.ParseAll(f.Search)
	if err != nil {
		return apiclient.PageRequest{}, err
	}
	filters := make(map[string]any, len(f.Filter))
	for k, v := range f.Filter {
		filters[k] = v
	}
	return apiclient.PageRequest{
		Page:     f.Page,
		PerPage:  f.PerPage,
		Filters:  filters,
		Criteria: criteria,
	}, nil
}

// ServersCmd groups server commands.
type ServersCmd struct {
	List     ServersListCmd     `kong:"cmd,help='List servers.'"`
	Get      ServersGetCmd      `kong:"cmd,help='Show one server.'"`
	Overview ServersOverviewCmd `kong:"cmd,help='Show fleet statistics.'"`
	Power    ServersPowerCmd    `kong:"cmd,help='Send a BMC power command or read power state.'"`
}

// ServersListCmd lists servers.
type ServersListCmd struct {
	ListFlags `kong:"embed"`
}

func (c *ServersListCmd) Run(app *App) error {
	req, err := c.request()
	if err != nil {
		return err
	}
	page := app.Fleet.Servers.Page(context.Background(), req)
	if !page.Success {
		return errors.New("failed to fetch servers")
	}

	table := newTable()
	table.AddRow("ID", "NAME", "MANUFACTURER", "PRODUCT", "STATUS", "STATE", "RACK")
	for _, s := range page.Data {
		table.AddRow(s.ServerID, s.ServerName, s.Manufacturer, s.ProductName, s.Status, s.State, s.RackID)
	}
	return printPage(app.Out, table, page.Meta)
}

// ServersGetCmd shows one server.
type ServersGetCmd struct {
	ID string `kong:"arg,help='Server id.'"`
}

func (c *ServersGetCmd) Run(app *App) error {
	s := app.Fleet.Servers.Get(context.Background(), c.ID)
	if s == nil {
		return fmt.Errorf("server %s not found", c.ID)
	}
	return printJSON(app.Out, s)
}

// ServersOverviewCmd shows fleet statistics.
type ServersOverviewCmd struct{}

func (c *ServersOverviewCmd) Run(app *App) error {
	return printJSON(app.Out, app.Fleet.Servers.Overview(context.Background()))
}

// ServersPowerCmd runs a power action.
type ServersPowerCmd struct {
	ID     int    `kong:"arg,help='Server id.'"`
	Action string `kong:"arg,enum='on,off,restart,force-off,force-restart,status',help='on, off, restart, force-off, force-restart or status.'"`
}

func (c *ServersPowerCmd) Run(app *App) error {
	ctx := context.Background()
	var res fleet.PowerResult
	if c.Action == "status" {
		res = app.Fleet.Servers.PowerStatus(ctx, c.ID)
	} else {
		res = app.Fleet.Servers.Power(ctx, c.ID, fleet.PowerAction(c.Action))
	}
	if err := printJSON(app.Out, res); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("power %s failed: %s", c.Action, res.Error)
	}
	return nil
}

// VMsCmd groups VM commands.
type VMsCmd struct {
	List     VMsListCmd     `kong:"cmd,help='List VMs.'"`
	Get      VMsGetCmd      `kong:"cmd,help='Show one VM.'"`
	ByServer VMsByServerCmd `kong:"cmd,name='by-server',help='List VMs on one server.'"`
}

// VMsListCmd lists VMs.
type VMsListCmd struct {
	ListFlags `kong:"embed"`
}

func (c *VMsListCmd) Run(app *App) error {
	req, err := c.request()
	if err != nil {
		return err
	}
	page := app.Fleet.VMs.Page(context.Background(), req)
	if !page.Success {
		return errors.New("failed to fetch VMs")
	}
	table := vmTable(page.Data)
	return printPage(app.Out, table, page.Meta)
}

// VMsGetCmd shows one VM.
type VMsGetCmd struct {
	ID string `kong:"arg,help='VM id.'"`
}

func (c *VMsGetCmd) Run(app *App) error {
	vm := app.Fleet.VMs.Get(context.Background(), c.ID)
	if vm == nil {
		return fmt.Errorf("VM %s not found", c.ID)
	}
	return printJSON(app.Out, vm)
}

// VMsByServerCmd lists VMs hosted on a server.
type VMsByServerCmd struct {
	ServerID int `kong:"arg,help='Server id.'"`
}

func (c *VMsByServerCmd) Run(app *App) error {
	_, err := fmt.Fprintln(app.Out, vmTable(app.Fleet.VMs.ByServer(context.Background(), c.ServerID)))
	return err
}

func vmTable(vms []fleet.VM) *uitable.Table {
	table := newTable()
	table.AddRow("ID", "NAME", "SERVER", "HYPERVISOR", "VCPU", "MEMORY MB", "STATE", "STATUS")
	for _, vm := range vms {
		table.AddRow(vm.VMID, vm.VMName, vm.ServerID, vm.HypervisorType, vm.VCPUCount, vm.MemoryMB, vm.VMState, vm.VMStatus)
	}
	return table
}

// ClustersCmd groups Kubernetes cluster commands.
type ClustersCmd struct {
	List ClustersListCmd `kong:"cmd,help='List clusters.'"`
	Get  ClustersGetCmd  `kong:"cmd,help='Show one cluster.'"`
	Pods ClustersPodsCmd `kong:"cmd,help='List pods in a cluster.'"`
}

// ClustersListCmd lists clusters.
type ClustersListCmd struct {
	ListFlags `kong:"embed"`
}

func (c *ClustersListCmd) Run(app *App) error {
	req, err := c.request()
	if err != nil {
		return err
	}
	page := app.Fleet.Kubernetes.ClustersPage(context.Background(), req)
	if !page.Success {
		return errors.New("failed to fetch clusters")
	}

	table := newTable()
	table.AddRow("ID", "NAME", "VERSION", "DISTRIBUTION", "STATE", "STATUS")
	for _, cl := range page.Data {
		table.AddRow(cl.ClusterID, cl.ClusterName, cl.ClusterVersion, cl.Distribution, cl.ClusterState, cl.ClusterStatus)
	}
	return printPage(app.Out, table, page.Meta)
}

// ClustersGetCmd shows one cluster.
type ClustersGetCmd struct {
	ID string `kong:"arg,help='Cluster id.'"`
}

func (c *ClustersGetCmd) Run(app *App) error {
	cl := app.Fleet.Kubernetes.Cluster(context.Background(), c.ID)
	if cl == nil {
		return fmt.Errorf("cluster %s not found", c.ID)
	}
	return printJSON(app.Out, cl)
}

// ClustersPodsCmd lists a cluster's pods.
type ClustersPodsCmd struct {
	ID int `kong:"arg,help='Cluster id.'"`
}

func (c *ClustersPodsCmd) Run(app *App) error {
	table := newTable()
	table.AddRow("ID", "NAME", "NAMESPACE", "PHASE", "READY", "RESTARTS", "IP")
	for _, p := range app.Fleet.Kubernetes.ClusterPods(context.Background(), c.ID) {
		table.AddRow(p.PodID, p.PodName, p.NamespaceID, p.PodPhase, p.IsReady, p.RestartCount, p.PodIP)
	}
	_, err := fmt.Fprintln(app.Out, table)
	return err
}

// ComponentsCmd groups component catalog commands.
type ComponentsCmd struct {
	Catalog ComponentsCatalogCmd `kong:"cmd,help='Summarize the component catalog.'"`
}

// ComponentsCatalogCmd prints catalog counts per kind.
type ComponentsCatalogCmd struct{}

func (c *ComponentsCatalogCmd) Run(app *App) error {
	cat := app.Fleet.Components.Catalog(context.Background())

	table := newTable()
	table.AddRow("KIND", "MODELS")
	table.AddRow("cpus", len(cat.CPUs))
	table.AddRow("memory", len(cat.Memory))
	table.AddRow("disks", len(cat.Disks))
	table.AddRow("network", len(cat.NetworkInterfaces))
	table.AddRow("gpus", len(cat.GPUs))
	table.AddRow("motherboards", len(cat.Motherboards))
	table.AddRow("bmcs", len(cat.BMCs))
	_, err := fmt.Fprintln(app.Out, table)
	return err
}

// SearchCmd groups offline search tools.
type SearchCmd struct {
	Preview SearchPreviewCmd `kong:"cmd,help='Show the structured search and preview for criteria.'"`
}

// SearchPreviewCmd encodes criteria without calling the gateway.
type SearchPreviewCmd struct {
	Exprs []string `kong:"arg,sep='none',help='Criteria such as status=active or AND:cpu_count>=8.'"`
}

func (c *SearchPreviewCmd) Run(app *App) error {
	criteria, err := search.ParseAll(c.Exprs)
	if err != nil {
		return err
	}
	s := search.ToStructured(criteria)

	fmt.Fprintf(app.Out, "search:  %s\n", s)
	fmt.Fprintf(app.Out, "preview: %s\n", search.Preview(s))
	for _, w := range search.LogicWarnings(criteria) {
		fmt.Fprintf(app.Out, "warning: %s\n", w)
	}
	return nil
}

func newTable() *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 50
	table.Wrap = true
	return table
}

func printPage(w io.Writer, table *uitable.Table, meta *model.Meta) error {
	if _, err := fmt.Fprintln(w, table); err != nil {
		return err
	}
	if meta == nil {
		return nil
	}
	p := meta.Pagination
	_, err := fmt.Fprintf(w, "\npage %d/%d, %d total\n", p.CurrentPage, p.TotalPages, p.TotalCount)
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
