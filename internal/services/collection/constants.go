package collection

const (
	DefaultBatchWorkers  = 4
	DefaultBatchMaxItems = 200
	MaxPageSize          = 200

	// VoucherPrefix starts every voucher id: VCH-<yyyymmdd>-<8 hex>.
	VoucherPrefix = "VCH"

	opRecord = "record"
	opBatch  = "record_batch"
	opList   = "list"
	opGet    = "get_by_voucher"
)
