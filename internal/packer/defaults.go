package packer

import "github.com/kandebooths/packer-service/internal/model"

// DefaultCatalog returns the built-in catalog used until an admin saves one.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Corporate: Tier{
			Services: Table{
				{"Standard Photo Booth", []string{"Venture", "Sharing Stand", "Ipad", "Backdrop", "Hotspot", "Props", "Power Strip", "Extension Cables"}},
				{"Glam Booth", []string{"Venture", "Bulb Softbox + Ring Adapter", "2x Alien Bee Flashes (1 backup)", "Sharing Stand", "Ipad", "Backdrop", "Hotspot", "Props", "Power Strip", "Extension Cables"}},
				{"Animated GIF Booth", []string{"Venture + GIFs", "Sharing Stand", "Ipad", "Backdrop", "Hotspot", "Props", "Power Strip", "Extension Cables"}},
				{"Green Screen Booth", []string{"Venture + Green Screen", "Green Screen Backdrop", "2x LED Light Wands", "2x Mic Stands", "Light Wand Batteries", "Sharing Stand", "Ipad", "Hotspot", "Power Strip", "Extension Cables"}},
				{"Boomerang Booth", []string{"Ipad Booth + DSLR", "2x LED Light Wands", "2x Mic Stands", "Light Wand Batteries", "Sharing Stand", "Ipad", "Backdrop", "Hotspot", "Power Strip", "Extension Cables", "Extra Ipad Pro"}},
				{"Slow Mo Booth", []string{"Ipad Booth + DSLR", "2x LED Light Wands", "2x Mic Stands", "Light Wand Batteries", "Sharing Stand", "Ipad", "Backdrop", "Hotspot", "Power Strip", "Extension Cables", "Extra Ipad Pro"}},
				{"Face Morph Booth", []string{"Venture", "2x LED Light Wands", "2x Mic Stands", "Light Wand Batteries", "Sitting Bench", "Sharing Stand", "Ipad", "Backdrop", "Hotspot", "Power Strip", "Extension Cables"}},
				{"NFT Booth", []string{"Venture", "Sharing Stand", "Ipad", "Backdrop", "Hotspot", "Props", "Power Strip", "Extension Cables"}},
				{"360 Booth", []string{"360 Platform + Arm", "Platform Battery + Power Cord", "Ring Light for Arm", "Ring Light Battery", "4 LED Lights + Circle Monopods", "LED Light Batteries", "Iphone", "White Dongle + Cords", "Sharing Stand", "Ipad", "Power Strip", "Extension Cables"}},
				{"180 Multi-Cam Array", []string{"Array", "Array PC", "2x Einstein Flashes (1 backup)", "Array Softbox", "Sharing Stand", "Ipad", "Hotspot", "Power Strip", "Extension Cables"}},
				{"Photo Mosaic", []string{"PICKUP FOAMBOARD", "Ipad Booth + DSLR", "Speedflash + Bubble diffuser", "AA Batteries - Flash", "2x Mosaic Prints (1 backup)", "2x Printer Stands", "Sticker Paper/Ink", "Mosaic Laptop", "USB Printer Cord", "Sharing Stand", "Ipad", "Black Pillowcase Backdrop (foamboard)", "Backdrop (Photos)", "Foamboard Mounting Arms", "Hotspot", "Power Strip", "Extension Cables", "Gaff Tape", "Extra Ipad Pro"}},
				{"AI Sketch Bot", []string{"Sketchbot(s) - Check Quantity + Add 1", "Plain Paper", "Sketchbot Laptop", "Router", "Dongles", "Ethernet Cords", "2x Ipads (for photos)", "Staedler Pens"}},
				{"Vogue Booth", []string{"Vogue Booth Enclosure", "2x Sets of LED Lights", "2x LED Controller Boxes", "Custom Vogue Fabric or Black Fabric", "Venture", "Sharing Stand", "Ipad", "Backdrop", "Hotspot", "Power Strip", "Extension Cables"}},
				{"AI Photo Booth", []string{"Ipad Booth + DSLR", "Speedflash + Bubble diffuser", "AA Batteries - Flash", "Sharing Stand", "Ipad", "Backdrop", "Hotspot", "Power Strip", "Extension Cables", "Extra Ipad Pro"}},
				{"Custom Trading Card Booth", []string{"Ipad Booth + DSLR", "Speedflash + Bubble diffuser", "AA Batteries - Flash", "Trading Card Cases", "Printer", "Paper/Ink", "Trading Card Enclosure", "Glue", "Card Cutter", "2x Cutting Dies", "Ipad (for printing)", "LED Light for inside enclosure", "Card Mid Section Paper", "Hotspot", "2x Power Strips", "2x Extension Cables"}},
				{"Kande Station", []string{"Ipad Booth (No DSLR)", "Hotspot", "Extension Cables", "Extra Ipad Pro"}},
				{"Custom Video Booth", []string{"Ipad Booth + DSLR", "2x LED Light Wands", "2x Mic Stands", "Light Wand Batteries", "Sharing Stand", "Ipad", "Backdrop", "Hotspot", "Power Strip", "Extension Cables", "Extra Ipad Pro"}},
				{"Video Testimonial Booth", []string{"Ipad Booth + DSLR", "2x LED Light Wands", "2x Mic Stands", "Light Wand Batteries", "Sharing Stand", "Ipad", "Rode Mic", "Ulanzi Camera Hotshoe Mount", "Backdrop", "Hotspot", "Power Strip", "Extension Cables", "Extra Ipad Pro"}},
				{"Roaming Photo Booth", []string{"Roaming Photo Booth", "Extra Batteries - Roamer", "Hotspot", "Battery Pack - Hotspot", "Extra Ipad Pro"}},
				{"AI Roaming Photographer", []string{"R10 Camera", "L Series Lens", "Canon Speedflash", "Bubble Diffuser", "AA Batteries - Flash", "White Dongle", "USB Cord - Iphone to Camera", "Wrist Strap for Iphone", "Iphone", "Camera Batteries", "Battery Pack", "Ipad with Case - Sharing", "Hotspot"}},
				{"Studio Photographer Setup", []string{"R6 Camera + Camera Tripod", "Wireless Flash Trigger + Flash receiver", "Hotshoe + Sync Cord (backup)", "2x Alien Bee Flashes (1 backup)", "Large Softbox", "Circle Base Monopod", "Sandbags/Weights", "Iphone or Ipad", "White Dongle + Cord to Camera", "Sharing Stand", "Ipad", "Backdrop", "Hotspot", "Props", "Power Strip", "Extension Cables"}},
				{"Headshot Studio", []string{"R6 Camera + Camera Tripod", "Wireless Flash Trigger + Flash receiver", "Hotshoe + Sync Cord (backup)", "2x Alien Bee Flashes (1 backup)", "Large Softbox", "Circle Base Monopod", "Sandbags/Weights", "Iphone or Ipad", "White Dongle + Cord to Camera", "Sharing Stand", "Ipad", "Backdrop", "Hotspot", "Props", "Power Strip", "Extension Cables", "Sitting Bench"}},
			},
			Addons: Table{
				{"Custom Text Sign Props", []string{"Custom Text Sign Props"}},
				{"Print Package", []string{"Printer", "Printer Stand", "Paper/Ink", "Laptop - if Ipad Booth"}},
				{"Custom Branded Step and Repeat Backdrop", []string{"Custom Branded Step and Repeat Backdrop"}},
				{"Custom Branded Full Booth Vinyl Wrap", []string{"Custom Branded Full Booth Vinyl Wrap"}},
				{"Additional Social Media Sharing Kiosk", []string{"Additional Social Media Sharing Kiosk(s)"}},
				{"Custom Branded 360 Backdrop", []string{"Custom Branded 360 Backdrop"}},
				{"Confetti", []string{"Confetti", "Shop Vac"}},
				{"Fog Machine", []string{"Fog Machine", "Fog Juice"}},
				{"Custom Branded 360 Booth Vinyl Wrap", []string{"Custom Branded 360 Booth Vinyl Wrap"}},
				{"Custom Branded Sharing Kiosk", []string{"Custom Branded Sharing Kiosk(s)"}},
				{"Print Package: Unlimited 4x6in Prints", []string{"Printer", "Printer Stand", "Paper/Ink", "Laptop - if Ipad Booth"}},
				{"Custom-Branded Step and Repeat Backdrop", []string{"Custom-Branded Step and Repeat Backdrop"}},
				{"Custom-Branded Step and Repeat Backdrop 12x10 ft", []string{"Custom-Branded Step and Repeat Backdrop 12x10 ft"}},
				{"Custom Branded Full Booth Vinyl Wrap (KS)", []string{"Custom Branded Full Booth Vinyl Wrap (KS)"}},
				{"Pre-Printed Custom Branded Photo Paper", []string{"Pre-Printed Custom Branded Photo Paper"}},
				{"Additional Bots", []string{"Additional Bots (check quantity + 1)"}},
				{"Custom Branded Stickers", []string{"Custom Branded Stickers"}},
				{"Additional Card Cutting Station", []string{"Additional Card Cutting Station"}},
				{"Hair Blower", []string{"Hair Blower"}},
				{"Green Screen Backdrop", []string{"Green Screen Backdrop"}},
				{"8x10 inch Prints", []string{"DS820 Printer (Ask Kurtis)"}},
			},
		},
		NonCorporate: Tier{
			Services: Table{
				{"Bronze Package", []string{"Venture", "Printer", "Printer Stand", "Paper/Ink", "Backdrop", "Hotspot", "Props", "Power Strip", "Extension Cables"}},
				{"Silver Package", []string{"Venture", "Printer", "Printer Stand", "Paper/Ink", "Sharing Stand", "Ipad", "Backdrop", "Hotspot", "Props", "Power Strip", "Extension Cables"}},
				{"Gold Package", []string{"Roaming Photo Booth", "Extra Batteries - Roamer", "Venture/GIFs", "Printer", "Printer Stand", "Paper/Ink", "Sharing Stand", "Ipad", "Backdrop", "Hotspot", "Props", "Power Strip", "Extension Cables", "Extra Ipad Pro"}},
				{"Glam Booth", []string{"Venture", "Bulb Softbox + Ring Adapter", "2x Alien Bee Flashes (1 backup)", "Printer", "Printer Stand", "Paper/Ink", "Sharing Stand", "Ipad", "Backdrop", "Hotspot", "Props", "Power Strip", "Extension Cables"}},
				{"AI Photo Booth", []string{"Ipad Booth + DSLR", "Speedflash + Bubble diffuser", "AA Batteries - Flash", "Printer", "Printer Stand", "Paper/Ink", "Sharing Stand", "Ipad", "Backdrop", "Hotspot", "Power Strip", "Extension Cables", "Extra Ipad Pro"}},
				{"Spotlight Photo Booth", []string{"Venture", "Spotlight Adapter", "Spotlight Video Light", "Printer", "Printer Stand", "Paper/Ink", "Sharing Stand", "Ipad", "Backdrop", "Hotspot", "Props", "Power Strip", "Extension Cables"}},
				{"Travel Theme Photo Booth", []string{"Ipad Booth + DSLR", "Speedflash + Bubble diffuser", "AA Batteries - Flash", "Printer", "Printer Stand", "Paper/Ink", "Sharing Stand", "Ipad", "Backdrop", "Hotspot", "Power Strip", "Extension Cables", "Extra Ipad Pro"}},
				{"Magazine Cover Booth", []string{"Ipad Booth + DSLR", "Speedflash + Bubble diffuser", "AA Batteries - Flash", "Printer", "Printer Stand", "Paper/Ink", "Sharing Stand", "Ipad", "Backdrop", "Hotspot", "Power Strip", "Extension Cables", "Extra Ipad Pro"}},
				{"Portrait Studio", []string{"R6 Camera + Camera Tripod", "Wireless Flash Trigger + Flash receiver", "Hotshoe + Sync Cord (backup)", "2x Alien Bee Flashes (1 backup)", "Large Softbox", "Circle Base Monopod", "Sandbags/Weights", "Iphone or Ipad", "White Dongle + Cord to Camera", "Printer", "Printer Stand", "Paper/Ink", "Sharing Stand", "Ipad", "Backdrop", "Hotspot", "Props", "Power Strip", "Extension Cables"}},
				{"360 Booth", []string{"360 Platform + Arm", "Platform Battery + Power Cord", "Ring Light for Arm", "Ring Light Battery", "4 LED Lights + Circle Monopods", "LED Light Batteries", "Sharing Stand", "Ipad", "Power Strip", "Extension Cables", "Iphone", "White Dongle + Cords"}},
				{"180 Multi-Cam Array", []string{"Array", "Array PC", "2x Einstein Flashes (1 backup)", "Array Softbox", "Sharing Stand", "Ipad", "Hotspot", "Power Strip", "Extension Cables"}},
				{"Kande Station Rental", []string{"Ipad Booth (No DSLR)", "Hotspot", "Extension Cables", "Extra Ipad Pro"}},
				{"Roaming Photo Booth", []string{"Roaming Photo Booth", "Extra Batteries - Roamer", "Hotspot", "Battery Pack - Hotspot", "Extra Ipad Pro"}},
			},
			Addons: Table{
				{"Premium Flower Wall", []string{"Premium Flower Wall"}},
				{"Beep Phone", []string{"Beep Phone", "Battery Pack", "LED Sign"}},
				{"Custom Branded Step and Repeat Backdrop", []string{"Custom Branded Step and Repeat Backdrop"}},
				{"Green Screen Backdrop", []string{"Green Screen Backdrop", "2x LED Light Wands", "2x Mic Stands", "Light Wand Batteries"}},
				{"Roaming Photo Booth", []string{"Extra Batteries - Roamer"}},
				{"Confetti", []string{"Confetti", "Shop Vac"}},
				{"Fog Machine", []string{"Fog Machine", "Fog Juice"}},
				{"Custom Branded 360 Booth Vinyl Wrap", []string{"Apply 360 Platform Wrap"}},
				{"360 Enclosure with LED String Lights", []string{"360 Enclosure with LED String Lights", "Zip Ties"}},
				{"360 Custom Curved Backdrop - 10ft Wide", []string{"360 Custom Curved Backdrop - 10ft Wide"}},
				{"360 Custom Branded Step and Repeat Backdrop", []string{"360 Custom Branded Step and Repeat Backdrop"}},
				{"Premium Themed Prop Signs", []string{"Props"}},
			},
		},
	}
}

// DefaultChecklist is used when no booked service matched the catalog.
func DefaultChecklist() []model.ChecklistItem {
	return []model.ChecklistItem{
		{ID: "booth_packed", Text: "Photo booth equipment packed and secured", Required: true},
		{ID: "props_included", Text: "Props and accessories included per event requirements", Required: true},
		{ID: "cables_power", Text: "All cables, power supplies, and adapters included", Required: true},
		{ID: "backdrop_lighting", Text: "Backdrop and lighting equipment (if applicable)", Required: false},
		{ID: "setup_guide", Text: "Setup instructions and event details included", Required: true},
		{ID: "marketing_materials", Text: "Business cards and promotional materials", Required: false},
		{ID: "cleaning_supplies", Text: "Cleaning supplies and sanitizer", Required: true},
		{ID: "extension_cords", Text: "Extension cords and power strips", Required: true},
		{ID: "custom_items", Text: "Any custom requested items per event notes", Required: false},
		{ID: "inventory_check", Text: "Final inventory check completed", Required: true},
	}
}

// IsDefaultChecklist reports whether items still carry the generic default
// list, which marks a checklist created before services were known.
func IsDefaultChecklist(items []model.ChecklistItem) bool {
	for _, it := range items {
		if it.ID == "booth_packed" || it.ID == "props_included" {
			return true
		}
	}
	return false
}
