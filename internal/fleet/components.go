package fleet

import (
	"context"

	"farmview-proxy/internal/apiclient"
	"farmview-proxy/internal/model"
)

const (
	componentsCatalog = "/api/servers/components/catalog"
	componentsStats   = "/api/servers/components/stats"
)

// ComponentKind names a component list.
type ComponentKind string

// Component lists.
const (
	CPUs         ComponentKind = "cpus"
	Memory       ComponentKind = "memory"
	Disks        ComponentKind = "disks"
	Network      ComponentKind = "network"
	GPUs         ComponentKind = "gpus"
	Motherboards ComponentKind = "motherboards"
	BMCs         ComponentKind = "bmcs"
)

var componentEndpoints = map[ComponentKind]string{
	CPUs:         "/api/servers/components/cpus",
	Memory:       "/api/servers/components/memory",
	Disks:        "/api/servers/components/disks",
	Network:      "/api/servers/components/network",
	GPUs:         "/api/servers/components/gpus",
	Motherboards: "/api/components/motherboards",
	BMCs:         "/api/components/bmcs",
}

// CPUType is a catalogued CPU model.
type CPUType struct {
	ComponentCPUID int    `json:"component_cpu_id"`
	Manufacturer   string `json:"manufacturer"`
	ModelName      string `json:"model_name"`
	NumCores       int    `json:"num_cores,omitempty"`
	NumThreads     int    `json:"num_threads,omitempty"`
	CapacityMHz    int    `json:"capacity_mhz,omitempty"`
}

// MemoryType is a catalogued DIMM.
type MemoryType struct {
	ComponentMemoryID int    `json:"component_memory_id"`
	Manufacturer      string `json:"manufacturer"`
	PartNumber        string `json:"part_number"`
	SizeBytes         int64  `json:"size_bytes"`
	MemType           string `json:"mem_type"`
	SpeedMTs          int    `json:"speed_mt_s,omitempty"`
}

// DiskType is a catalogued drive model.
type DiskType struct {
	ComponentDiskID int    `json:"component_disk_id"`
	Manufacturer    string `json:"manufacturer,omitempty"`
	Model           string `json:"model"`
	SizeBytes       int64  `json:"size_bytes,omitempty"`
	Rotational      bool   `json:"rotational,omitempty"`
	BusType         string `json:"bus_type,omitempty"`
}

// NetworkType is a catalogued network adapter.
type NetworkType struct {
	ComponentNetworkID int    `json:"component_network_id"`
	VendorName         string `json:"vendor_name,omitempty"`
	DeviceName         string `json:"device_name"`
	Driver             string `json:"driver,omitempty"`
	MaxSpeedMbps       int    `json:"max_speed_mbps,omitempty"`
}

// GPUType is a catalogued GPU.
type GPUType struct {
	ComponentGPUID int    `json:"component_gpu_id"`
	Vendor         string `json:"vendor"`
	Model          string `json:"model"`
	VRAMMB         int    `json:"vram_mb,omitempty"`
}

// MotherboardType is a catalogued board.
type MotherboardType struct {
	ComponentMotherboardID int    `json:"component_motherboard_id"`
	Manufacturer           string `json:"manufacturer"`
	ProductName            string `json:"product_name"`
	Version                string `json:"version,omitempty"`
	BIOSVersion            string `json:"bios_version,omitempty"`
}

// Catalog lists every known component model.
type Catalog struct {
	CPUs              []CPUType         `json:"cpus"`
	Memory            []MemoryType      `json:"memory"`
	Disks             []DiskType        `json:"disks"`
	NetworkInterfaces []NetworkType     `json:"network_interfaces"`
	GPUs              []GPUType         `json:"gpus"`
	Motherboards      []MotherboardType `json:"motherboards"`
	BMCs              []map[string]any  `json:"bmcs"`
}

// CatalogStats counts catalog entries per kind.
type CatalogStats struct {
	TotalCPUTypes         int `json:"total_cpu_types"`
	TotalMemoryTypes      int `json:"total_memory_types"`
	TotalDiskTypes        int `json:"total_disk_types"`
	TotalNetworkTypes     int `json:"total_network_types"`
	TotalGPUTypes         int `json:"total_gpu_types"`
	TotalMotherboardTypes int `json:"total_motherboard_types"`
	TotalBMCTypes         int `json:"total_bmc_types"`
}

// Components reads the component catalog.
type Components struct {
	c *apiclient.Client
}

// Catalog returns the full catalog.
func (p *Components) Catalog(ctx context.Context) Catalog {
	return fetchData(ctx, p.c, componentsCatalog, Catalog{}, "Failed to fetch component catalog")
}

// Stats returns catalog counts.
func (p *Components) Stats(ctx context.Context) CatalogStats {
	return fetchData(ctx, p.c, componentsStats, CatalogStats{}, "Failed to fetch component stats")
}

// ByType returns one page of a component list. An unknown kind yields an
// empty page without a call.
func (p *Components) ByType(ctx context.Context, kind ComponentKind, req apiclient.PageRequest) model.Page[map[string]any] {
	endpoint, ok := componentEndpoints[kind]
	if !ok {
		perPage := req.PerPage
		if perPage <= 0 {
			perPage = apiclient.DefaultPerPage
		}
		return model.EmptyPage[map[string]any](perPage)
	}
	return apiclient.Paginated[map[string]any](ctx, p.c, endpoint, req, "components")
}
