package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kandebooths/packer-service/internal/model"
)

func TestChecklistHandler_Get_ReturnsGeneratedList(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/checklist/e1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	packer := body["packer"].([]interface{})
	assert.Len(t, packer, 9)
	assert.Equal(t, "Venture", packer[0].(map[string]interface{})["text"])
	assert.Empty(t, body["attendant"])
	assert.EqualValues(t, 0, body["packer_items_count"])
}

func TestChecklistHandler_Get_UnknownEvent(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/checklist/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, model.ErrEventNotFound.Error(), decode(t, rec)["error"])
}

func TestChecklistHandler_Toggle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/checklist/e1/packer/items/auto_1", `{"completed":true,"completed_by":"Sam Lee"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	item := body["item"].(map[string]interface{})
	assert.Equal(t, "Printer", item["text"])
	assert.Equal(t, true, item["completed"])
	assert.Equal(t, "Sam Lee", item["completed_by"])
}

func TestChecklistHandler_Toggle_Errors(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		path string
		code int
	}{
		{"bad kind", "/api/checklist/e1/driver/items/auto_0", http.StatusBadRequest},
		{"unknown item", "/api/checklist/e1/packer/items/auto_99", http.StatusNotFound},
		{"pickup before packing", "/api/checklist/e1/attendant/items/pickup_auto_0", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, tc.path, `{"completed":true}`)
			assert.Equal(t, tc.code, rec.Code, rec.Body.String())
		})
	}
}

func TestChecklistHandler_Submit_Incomplete(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/checklist/e1/packer/submit", `{"staff_member":"Sam Lee","send_email":false}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, model.ErrIncomplete.Error(), body["error"])
	assert.Len(t, body["missing"], 9)
}

func TestChecklistHandler_Submit_RequiresStaffMember(t *testing.T) {
	env := newTestEnv(t)
	env.completePacker(t)

	rec := env.do(http.MethodPost, "/api/checklist/e1/packer/submit", `{"staff_member":"  "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChecklistHandler_Submit_ThenConflict(t *testing.T) {
	env := newTestEnv(t)
	env.completePacker(t)

	rec := env.do(http.MethodPost, "/api/checklist/e1/packer/submit", `{"staff_member":"Sam Lee","send_email":false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Sam Lee", body["submitted_by"])
	assert.NotEmpty(t, body["submitted_at"])

	rec = env.do(http.MethodPost, "/api/checklist/e1/packer/submit", `{"staff_member":"Sam Lee","send_email":false}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodPost, "/api/checklist/e1/packer/items/auto_0", `{"completed":false}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	view := decode(t, env.do(http.MethodGet, "/api/checklist/e1", ""))
	assert.Len(t, view["attendant"], 9)
	assert.EqualValues(t, 9, view["packer_items_count"])
}

func TestChecklistHandler_Reset(t *testing.T) {
	env := newTestEnv(t)
	env.completePacker(t)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/checklist/e1/packer/submit", `{"staff_member":"Sam Lee","send_email":false}`).Code)

	rec := env.do(http.MethodPost, "/api/checklist/e1/packer/reset", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	env.role, env.userID = model.RoleAdmin, "admin"
	rec = env.do(http.MethodPost, "/api/checklist/e1/packer/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)

	view := decode(t, env.do(http.MethodGet, "/api/checklist/e1", ""))
	assert.Nil(t, view["packer_submitted"])
	for _, it := range view["packer"].([]interface{}) {
		assert.Equal(t, false, it.(map[string]interface{})["completed"])
	}
}

func TestChecklistHandler_CustomItems(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/checklist/e1/custom-item", `{"text":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/checklist/e1/custom-item", `{"text":"Spare SD cards"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	item := body["item"].(map[string]interface{})
	assert.Equal(t, true, item["custom"])
	assert.Equal(t, true, item["required"])
	assert.Len(t, body["packer"], 10)

	id := item["id"].(string)
	rec = env.do(http.MethodPut, "/api/checklist/e1/packer-item/"+id, `{"text":"Spare SD cards x4","required":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	edited := decode(t, rec)["item"].(map[string]interface{})
	assert.Equal(t, "Spare SD cards x4", edited["text"])
	assert.Equal(t, false, edited["required"])

	rec = env.do(http.MethodDelete, "/api/checklist/e1/custom-item/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["packer"], 9)

	rec = env.do(http.MethodDelete, "/api/checklist/e1/packer-item/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChecklistHandler_Regenerate(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusOK, env.do(http.MethodDelete, "/api/checklist/e1/packer-item/auto_6", "").Code)

	rec := env.do(http.MethodPost, "/api/checklist/e1/regenerate-packer", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 1, body["services_matched"])
	assert.Equal(t, false, body["is_corporate"])
	assert.Equal(t, "Wedding", body["event_type"])
	packer := body["packer"].([]interface{})
	require.Len(t, packer, 8)
	for _, it := range packer {
		assert.NotEqual(t, "Props", it.(map[string]interface{})["text"])
	}
}

func TestChecklistHandler_Notes(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/checklist/e1/notes/driver", `{"notes":"x"}`).Code)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/checklist/e1/notes/packer-notes", `{"notes":"extra ink"}`).Code)

	view := decode(t, env.do(http.MethodGet, "/api/checklist/e1", ""))
	assert.Equal(t, "extra ink", view["notes"].(map[string]interface{})["packer-notes"])
}

func TestChecklistHandler_PublicFieldsInvalidatePage(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/checklist/e1/subcontractor", `{"subcontractor":"Snap Co"}`).Code)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/checklist/e1/internal-notes", `{"internal_notes":"park in lot C"}`).Code)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/checklist/e1/backdrop", `{"backdrop_text":"Gold sequin"}`).Code)

	assert.Equal(t, []string{"e1", "e1"}, env.invalidated())

	view := decode(t, env.do(http.MethodGet, "/api/checklist/e1", ""))
	assert.Equal(t, "Snap Co", view["subcontractor"])
	assert.Equal(t, "park in lot C", view["internal_notes"])
	assert.Equal(t, "Gold sequin", view["backdrop_text"])
}

func TestChecklistHandler_BackdropImage(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/checklist/e1/backdrop-image", `{}`).Code)

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/checklist/e1/backdrop-image", `{"image":"data:image/png;base64,AAAA"}`).Code)
	view := decode(t, env.do(http.MethodGet, "/api/checklist/e1", ""))
	assert.Equal(t, "data:image/png;base64,AAAA", view["backdrop_image"])
	assert.Equal(t, "data:image/png;base64,AAAA", view["backdrop_image_full"])

	require.Equal(t, http.StatusOK, env.do(http.MethodDelete, "/api/checklist/e1/backdrop-image", "").Code)
	view = decode(t, env.do(http.MethodGet, "/api/checklist/e1", ""))
	assert.Nil(t, view["backdrop_image"])
}

func TestChecklistHandler_SetHiddenService(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/checklist/e1/hidden-services", `{"hidden":true}`).Code)
	assert.Empty(t, env.invalidated())

	rec := env.do(http.MethodPost, "/api/checklist/e1/hidden-services", `{"service_index":1,"hidden":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{float64(1)}, decode(t, rec)["hidden_services"])
	assert.Equal(t, []string{"e1"}, env.invalidated())

	rec = env.do(http.MethodPost, "/api/checklist/e1/hidden-services", `{"service_index":1,"hidden":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["hidden_services"])
}

func TestChecklistHandler_BadBody(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/checklist/e1/packer/items/auto_0", `{"completed":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid body", decode(t, rec)["error"])
}
