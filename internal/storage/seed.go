package storage

import (
	"context"
	"fmt"

	"github.com/claude/irontrack/internal/models"
)

// SeedExercises populates an empty store with the default exercise
// catalog. Stores that already hold a catalog are left alone, so user
// edits survive restarts.
func SeedExercises(ctx context.Context, s Store) error {
	existing, err := s.GetExercises(ctx)
	if err != nil {
		return fmt.Errorf("checking exercise catalog: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	if err := s.SaveExercises(ctx, DefaultExercises()); err != nil {
		return fmt.Errorf("seeding exercise catalog: %w", err)
	}
	return nil
}

// DefaultExercises returns the built-in exercise catalog.
func DefaultExercises() []models.ExerciseBase {
	return []models.ExerciseBase{
		{
			ID:          "ex_bi_predicador",
			MuscleGroup: models.Biceps,
			Name:        "Curl Avanzado",
			Variants: []models.Variant{
				{ID: "v_bi_pred_maq", Name: "Máquina"},
				{ID: "v_1764589162476", Name: "Banco predicador barra Z"},
				{ID: "v_1764589187436", Name: "Banco predicador mancuerna 1 brazo"},
				{ID: "v_1764589197404", Name: "Banco predicador mancuernas 2 brazos"},
				{ID: "v_1764589289115", Name: "Cuclillas torre poleas "},
				{ID: "v_1764589305844", Name: "Cuclillas Catedral poleas "},
				{ID: "v_1764594400839", Name: "Concentrado Mancuerna 1 brazo"},
				{ID: "v_1764594521422", Name: "Banco Spider mancuernas"},
			},
		},
		{
			ID:          "ex_bi_martillo",
			MuscleGroup: models.Biceps,
			Name:        "Martillo",
			Variants: []models.Variant{
				{ID: "v_bi_mar_manc", Name: "Martillo Mancuernas"},
				{ID: "v_1764589421836", Name: "Martillo cuerda torre poleas "},
				{ID: "v_1764589436827", Name: "Martillo cuerda Catedral poleas "},
			},
		},
		{
			ID:          "ex_bi_curl",
			MuscleGroup: models.Biceps,
			Name:        "Curl de pie",
			Variants: []models.Variant{
				{ID: "v_bi_curl_conc2", Name: "Concentrado 2 poleas altas"},
				{ID: "v_bi_curl_pie", Name: "Barra recta de pie"},
				{ID: "v_bi_curl_manc", Name: "Mancuernas"},
				{ID: "v_1764586892243", Name: "Barra barra Z de pie"},
				{ID: "v_1764594461127", Name: "Barra recta Catedral poleas"},
				{ID: "v_1764594472743", Name: "Barra recta Torre poleas"},
			},
		},
		{
			ID:          "ex_bi_reclinado",
			MuscleGroup: models.Biceps,
			Name:        "Curl reclinado",
			Variants: []models.Variant{
				{ID: "v_bi_rec_manc", Name: "Mancuernas"},
			},
		},
		{
			ID:          "ex_tri_frances",
			MuscleGroup: models.Triceps,
			Name:        "Press Frances",
			Variants: []models.Variant{
				{ID: "v_tri_fr_bz", Name: "Banco barra Z"},
				{ID: "v_tri_fr_manc", Name: "Banco mancuernas"},
				{ID: "v_1764594675628", Name: "Banco Catedral Poleas"},
				{ID: "v_1764594683732", Name: "Banco Torre Poleas"},
			},
		},
		{
			ID:          "ex_tri_poleas",
			MuscleGroup: models.Triceps,
			Name:        "Poleas",
			Variants: []models.Variant{
				{ID: "v_1764595121945", Name: "Polea alta delante Catedral cuerdas"},
				{ID: "v_1764595128921", Name: "Polea alta delante Torre cuerdas"},
				{ID: "v_1764595135721", Name: "Polea alta delante Catedral barra recta"},
				{ID: "v_1764595142889", Name: "Polea alta delante Torre barra recta"},
				{ID: "v_1764595149209", Name: "Polea alta Catedral cuerdas"},
				{ID: "v_1764595157384", Name: "Polea alta Torre cuerdas"},
				{ID: "v_1764595163856", Name: "Polea alta Catedral barra recta"},
				{ID: "v_1764595168969", Name: "Polea alta Torre barra recta"},
				{ID: "v_1764595175184", Name: "Polea alta Catedral barra \"V\""},
				{ID: "v_1764595182601", Name: "Polea alta Torre barra \"V\""},
				{ID: "v_1764595188585", Name: "Patada trasera Torre poleas"},
				{ID: "v_1764595194465", Name: "Patada trasera Catedral poleas"},
				{ID: "v_1764595203400", Name: "Polea alta 1 brazo Torre"},
				{ID: "v_1764595205529", Name: "Polea alta 1 brazo Catedral"},
			},
		},
		{
			ID:          "ex_tri_curl",
			MuscleGroup: models.Triceps,
			Name:        "Curl / Extensión",
			Variants: []models.Variant{
				{ID: "v_tri_tras_m1", Name: "Trasnuca mancuerna 1 brazo"},
				{ID: "v_tri_tras_m2", Name: "Trasnuca mancuerna 2 brazos"},
				{ID: "v_1764594722132", Name: "Patada mancuerna"},
				{ID: "v_1764595255128", Name: "Extensión máquina avanzado"},
			},
		},
		{
			ID:          "ex_tri_fondos",
			MuscleGroup: models.Triceps,
			Name:        "Fondos",
			Variants: []models.Variant{
				{ID: "v_tri_fon_par", Name: "Fondos Paralelas"},
				{ID: "v_tri_fon_banc", Name: "Fondos Banco"},
				{ID: "v_tri_fon_flex", Name: "Fondos flexiones"},
			},
		},
		{
			ID:          "ex_abs_gen",
			MuscleGroup: models.Abdominales,
			Name:        "Ejercicios Abdominales",
			Variants: []models.Variant{
				{ID: "v_abs_maq", Name: "Máquina"},
				{ID: "v_abs_banco", Name: "Banco"},
				{ID: "v_abs_lat", Name: "Laterales suelo"},
				{ID: "v_abs_esp", Name: "Espalderas"},
				{ID: "v_abs_enco", Name: "Encogmiento piernas fonderas"},
				{ID: "v_abs_elev", Name: "Elevación piernas fonderas"},
				{ID: "v_abs_rod", Name: "Rodillo"},
				{ID: "v_abs_rod_brazos", Name: "Rodillo apoyo brazos"},
				{ID: "v_abs_placa", Name: "Placa ruedines"},
				{ID: "v_abs_pinza", Name: "Pinza completa sobre fitball"},
				{ID: "v_abs_tor", Name: "Torsion lateral sobre trx"},
				{ID: "v_abs_abslat", Name: "Abdominales laterales"},
				{ID: "v_abs_combi", Name: "Combi sobre TRX"},
				{ID: "v_abs_inv", Name: "Contracciones invertidas"},
			},
		},
		{
			ID:          "ex_leg_fem",
			MuscleGroup: models.Piernas,
			Name:        "Femoral",
			Variants: []models.Variant{
				{ID: "v_leg_pm", Name: "Peso muerto"},
				{ID: "v_leg_fem_tum", Name: "Femoral tumbado"},
				{ID: "v_leg_fem_sen", Name: "Femoral sentado"},
			},
		},
		{
			ID:          "ex_leg_cuad",
			MuscleGroup: models.Piernas,
			Name:        "Cuádriceps",
			Variants: []models.Variant{
				{ID: "v_leg_ext", Name: "Extension sentado"},
				{ID: "v_leg_ext_mul", Name: "Extension sentado multi"},
				{ID: "v_leg_sen_bul", Name: "Sentadilla Búlgara"},
				{ID: "v_leg_sen_mul", Name: "Sentadillas multipower"},
				{ID: "v_leg_pren_dis", Name: "Prensa discos"},
				{ID: "v_leg_pren_pla", Name: "Prensa placas"},
				{ID: "v_leg_zan", Name: "Zancadas"},
			},
		},
		{
			ID:          "ex_leg_glute",
			MuscleGroup: models.Piernas,
			Name:        "Gluteos",
			Variants: []models.Variant{
				{ID: "v_leg_glu_maq", Name: "Máquina glúteos"},
			},
		},
		{
			ID:          "ex_leg_gem",
			MuscleGroup: models.Piernas,
			Name:        "Gemelos",
			Variants: []models.Variant{
				{ID: "v_leg_gem_esc", Name: "Escalera"},
				{ID: "v_leg_gem_maq", Name: "Máquina gemelos"},
			},
		},
		{
			ID:          "ex_leg_abd",
			MuscleGroup: models.Piernas,
			Name:        "Abductores",
			Variants: []models.Variant{
				{ID: "v_leg_abd_maq", Name: "Máquina abductores"},
			},
		},
		{
			ID:          "ex_sho_press",
			MuscleGroup: models.Hombro,
			Name:        "Press Militar",
			Variants: []models.Variant{
				{ID: "v_sho_bar_pie", Name: "Barra de pie"},
				{ID: "v_sho_sen_manc", Name: "Sentado mancuernas"},
				{ID: "v_sho_maq_d_cer", Name: "Maquina hombro discos agarre cerrado"},
				{ID: "v_sho_maq_d_abi", Name: "Maquina hombro discos agarre abierto"},
				{ID: "v_sho_maq_p_abi", Name: "Maquina hombro placas agarre abierto"},
				{ID: "v_sho_maq_p_cer", Name: "Maquina hombro placas agarre cerrado"},
				{ID: "v_sho_maq_p_var", Name: "Maquina hombro placas variable"},
			},
		},
		{
			ID:          "ex_sho_post",
			MuscleGroup: models.Hombro,
			Name:        "Posterior",
			Variants: []models.Variant{
				{ID: "v_sho_ap_maq", Name: "Apertura dorsal máquina"},
				{ID: "v_sho_paj_manc", Name: "Pájaro Mancuernas"},
				{ID: "v_1764595370776", Name: "Polea media 1 brazo Torre"},
				{ID: "v_1764595380328", Name: "Polea media 1 brazo Catedral"},
			},
		},
		{
			ID:          "ex_sho_lat",
			MuscleGroup: models.Hombro,
			Name:        "Elevación Lateral",
			Variants: []models.Variant{
				{ID: "v_sho_lat_maq", Name: "Máquina"},
				{ID: "v_sho_lat_manc", Name: "Mancuernas"},
				{ID: "v_1764595416735", Name: "Polea 1 brazo Torre"},
				{ID: "v_1764595430024", Name: "Polea 1 brazo Catedral"},
			},
		},
		{
			ID:          "ex_sho_fron",
			MuscleGroup: models.Hombro,
			Name:        "Elevación frontal",
			Variants: []models.Variant{
				{ID: "v_sho_fro_manc", Name: "Mancuernas"},
				{ID: "v_sho_fro_disc", Name: "Disco"},
				{ID: "v_1764595462031", Name: "Polea Baja entre piernas barra recta Torre"},
				{ID: "v_1764595471231", Name: "Polea Baja entre piernas barra recta Catedral"},
			},
		},
		{
			ID:          "ex_sho_trap",
			MuscleGroup: models.Hombro,
			Name:        "Trapecio",
			Variants: []models.Variant{
				{ID: "v_sho_enco", Name: "Encogimientos mancuernas"},
				{ID: "v_sho_trap_inc", Name: "Trapecio banco inclinado"},
				{ID: "v_1764595526983", Name: "Face Pull cuerda Torre poleas"},
				{ID: "v_1764595543743", Name: "Face Pull cuerda Catedral poleas"},
				{ID: "v_1764595574223", Name: "Elevación barra recta Torre poleas"},
				{ID: "v_1764595577574", Name: "Elevación barra recta Catedral poleas"},
			},
		},
		{
			ID:          "ex_pec_inc",
			MuscleGroup: models.Pecho,
			Name:        "Press inclinado",
			Variants: []models.Variant{
				{ID: "v_pec_inc_mul", Name: "Multipower"},
				{ID: "v_pec_inc_ban", Name: "Banco"},
				{ID: "v_pec_inc_manc", Name: "Mancuernas"},
				{ID: "v_pec_inc_maq", Name: "Maquina placas"},
				{ID: "v_1764595665175", Name: "Maquina placas ventana"},
			},
		},
		{
			ID:          "ex_pec_ban",
			MuscleGroup: models.Pecho,
			Name:        "Press banca",
			Variants: []models.Variant{
				{ID: "v_pec_ban_mul", Name: "Multipower"},
				{ID: "v_pec_ban_ban", Name: "Banco"},
				{ID: "v_pec_ban_manc", Name: "Mancuernas"},
				{ID: "v_pec_ban_maq", Name: "Maquina placas"},
				{ID: "v_pec_ban_ven", Name: "Maquina placas ventana"},
				{ID: "v_pec_ban_flex", Name: "Flexiones"},
				{ID: "v_1764595626351", Name: "Máquina discos agarre abierto"},
				{ID: "v_1764595635991", Name: "Máquina discos agarre cerrado"},
			},
		},
		{
			ID:          "ex_pec_aper",
			MuscleGroup: models.Pecho,
			Name:        "Aperturas",
			Variants: []models.Variant{
				{ID: "v_pec_ap_ban", Name: "Banco mancuernas"},
				{ID: "v_pec_ap_maq", Name: "Máquina aperturas"},
				{ID: "v_1764595716878", Name: "Aperturas mancuernas banco inclinado"},
			},
		},
		{
			ID:          "ex_pec_con",
			MuscleGroup: models.Pecho,
			Name:        "Contractora",
			Variants: []models.Variant{
				{ID: "v_1764595870686", Name: "Polea baja Torre"},
				{ID: "v_1764595876998", Name: "Polea baja Catedral "},
				{ID: "v_1764595883526", Name: "Polea media Torre"},
				{ID: "v_1764595889102", Name: "Polea media Catedral"},
				{ID: "v_1764595894005", Name: "Polea alta Torre"},
				{ID: "v_1764595899606", Name: "Polea alta Catedral "},
				{ID: "v_1764595908022", Name: "Polea baja Torre 1 brazo"},
				{ID: "v_1764595913910", Name: "Polea baja Catedral 1 brazo"},
				{ID: "v_1764595922246", Name: "Polea media Torre 1 brazo"},
				{ID: "v_1764595928701", Name: "Polea media Catedral 1 brazo"},
				{ID: "v_1764595933773", Name: "Polea alta Torre 1 brazo"},
				{ID: "v_1764595941382", Name: "Polea alta Catedral 1 brazo "},
			},
		},
		{
			ID:          "ex_pec_fon",
			MuscleGroup: models.Pecho,
			Name:        "Fondos",
			Variants: []models.Variant{
				{ID: "v_pec_fon_par", Name: "Fondos paralelas"},
			},
		},
		{
			ID:          "ex_pec_dec",
			MuscleGroup: models.Pecho,
			Name:        "Press declinado",
			Variants: []models.Variant{
				{ID: "v_pec_dec_ban", Name: "Banco multipower"},
				{ID: "v_pec_dec_ven", Name: "Máquina ventana"},
			},
		},
		{
			ID:          "ex_esp_pm",
			MuscleGroup: models.Espalda,
			Name:        "Peso muerto",
			Variants: []models.Variant{
				{ID: "v_esp_pm_rum", Name: "PM Rumano"},
				{ID: "v_esp_pm_manc", Name: "PM Mancuernas"},
			},
		},
		{
			ID:          "ex_esp_rbajo",
			MuscleGroup: models.Espalda,
			Name:        "Remo bajo",
			Variants: []models.Variant{
				{ID: "v_esp_rb_manc1", Name: "Remo con mancuerna a un brazo"},
				{ID: "v_esp_rb_barra", Name: "Remo con barra"},
				{ID: "v_esp_rb_maqd", Name: "Máquina discos"},
				{ID: "v_esp_rb_maqp", Name: "Máquina placas"},
				{ID: "v_1764596330933", Name: "Banco Catedral agarre cerrado"},
				{ID: "v_1764596340477", Name: "Banco Catedral agarre abierto"},
				{ID: "v_1764596358941", Name: "Banco Espalda agarre cerrado"},
				{ID: "v_1764596376652", Name: "Banco Espalda agarre abierto"},
				{ID: "v_1764596384844", Name: "Remo a 1 mano en polea baja Torre"},
				{ID: "v_1764596395293", Name: "Remo a 1 mano en polea baja Catedral"},
				{ID: "v_1764596490892", Name: "Remo en polea baja Torre"},
				{ID: "v_1764596495804", Name: "Remo en polea baja Catedral"},
			},
		},
		{
			ID:          "ex_esp_ralto",
			MuscleGroup: models.Espalda,
			Name:        "Remo Alto",
			Variants: []models.Variant{
				{ID: "v_esp_ra_binc", Name: "Banco inclinado mancuernas"},
				{ID: "v_esp_ra_bar", Name: "Remo con barra"},
				{ID: "v_esp_ra_maqd", Name: "Máquina discos"},
				{ID: "v_esp_ra_maqp", Name: "Máquina placas"},
			},
		},
		{
			ID:          "ex_esp_jalon",
			MuscleGroup: models.Espalda,
			Name:        "Jalón",
			Variants: []models.Variant{
				{ID: "v_esp_jal_maqd", Name: "Máquina discos"},
				{ID: "v_esp_jal_maqp", Name: "Máquina placas"},
				{ID: "v_1764596634708", Name: "Banco Espalda a pecho"},
				{ID: "v_1764596640780", Name: "Banco Catedral a pecho"},
				{ID: "v_1764596645365", Name: "Banco Espalda Trasnuca"},
				{ID: "v_1764596665048", Name: "Banco Catedral Trasnuca"},
				{ID: "v_1764596658444", Name: "Banco Espalda 1 mano"},
				{ID: "v_1764596665284", Name: "Banco Catedral 1 mano"},
			},
		},
		{
			ID:          "ex_esp_dom",
			MuscleGroup: models.Espalda,
			Name:        "Dominadas",
			Variants: []models.Variant{
				{ID: "v_esp_dom_aa", Name: "Agarre abierto"},
				{ID: "v_esp_dom_ac", Name: "Agarre cerrado"},
				{ID: "v_esp_dom_mul", Name: "Dominadas Multipower"},
			},
		},
		{
			ID:          "ex_esp_pull",
			MuscleGroup: models.Espalda,
			Name:        "Pullover",
			Variants: []models.Variant{
				{ID: "v_1764596728964", Name: "Polea alta barra recta Torre"},
				{ID: "v_1764596739436", Name: "Polea alta barra recta Catedral "},
				{ID: "v_1764596745660", Name: "Banco mancuerna"},
			},
		},
		{
			ID:          "ex_cardio_bici",
			MuscleGroup: models.Cardio,
			Name:        "Bicicleta",
			Variants: []models.Variant{
				{ID: "v_card_bici_std", Name: "Estándar"},
				{ID: "v_card_bici_est", Name: "Estática"},
			},
		},
		{
			ID:          "ex_cardio_eli",
			MuscleGroup: models.Cardio,
			Name:        "Elíptica",
			Variants: []models.Variant{
				{ID: "v_card_eli_std", Name: "Estándar"},
			},
		},
		{
			ID:          "ex_cardio_cin",
			MuscleGroup: models.Cardio,
			Name:        "Cinta",
			Variants: []models.Variant{
				{ID: "v_card_cin_std", Name: "Estándar"},
			},
		},
	}
}
