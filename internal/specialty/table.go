package specialty

// Generalist is the default specialty.
const Generalist = "Généraliste"

var diseaseSpecialties = map[string]string{
	"Hypertensive disease":          "Cardiologue",
	"Coronary arteriosclerosis":     "Cardiologue",
	"Coronary heart disease":        "Cardiologue",
	"Myocardial infarction":         "Cardiologue",
	"Cardiomyopathy":                "Cardiologue",
	"Tricuspid valve insufficiency": "Cardiologue",
	"Stenosis aortic valve":         "Cardiologue",
	"Failure heart congestive":      "Cardiologue",
	"Failure heart":                 "Cardiologue",
	"Tachycardia sinus":             "Cardiologue",

	"Diabetes":              "Endocrinologue",
	"Hyperglycemia":         "Endocrinologue",
	"Ketoacidosis diabetic": "Endocrinologue",

	"Depression mental":              "Psychiatre",
	"Depressive disorder":            "Psychiatre",
	"Anxiety state":                  "Psychiatre",
	"Psychotic disorder":             "Psychiatre",
	"Bipolar disorder":               "Psychiatre",
	"Schizophrenia":                  "Psychiatre",
	"Personality disorder":           "Psychiatre",
	"Delusion":                       "Psychiatre",
	"Affect labile":                  "Psychiatre",
	"Manic disorder":                 "Psychiatre",
	"Suicide attempt":                "Psychiatre",
	"Dependence":                     "Psychiatre",
	"Chronic alcoholic intoxication": "Psychiatre",

	"Pneumonia":                                "Pneumologue",
	"Asthma":                                   "Pneumologue",
	"Bronchitis":                               "Pneumologue",
	"Respiratory failure":                      "Pneumologue",
	"Emphysema pulmonary":                      "Pneumologue",
	"Pneumothorax":                             "Pneumologue",
	"Upper respiratory infection":              "Pneumologue",
	"Spasm bronchial":                          "Pneumologue",
	"Pneumocystis\u00a0carinii\u00a0pneumonia": "Pneumologue",
	"Pneumonia aspiration":                     "Pneumologue",
	"Hypertension pulmonary":                   "Pneumologue",

	"Infection urinary tract":        "Néphrologue",
	"Insufficiency renal":            "Néphrologue",
	"Chronic kidney failure":         "Néphrologue",
	"Kidney failure acute":           "Néphrologue",
	"Kidney disease":                 "Néphrologue",
	"Pyelonephritis":                 "Néphrologue",
	"Benign prostatic hypertrophy":   "Urologue",
	"Malignant neoplasm of prostate": "Urologue",
	"Carcinoma prostate":             "Urologue",

	"Gastroesophageal reflux disease":      "Gastro-entérologue",
	"Hepatitis c":                          "Gastro-entérologue",
	"Cirrhosis":                            "Gastro-entérologue",
	"Pancreatitis":                         "Gastro-entérologue",
	"Cholecystitis":                        "Gastro-entérologue",
	"Cholelithiasis":                       "Gastro-entérologue",
	"Biliary calculus":                     "Gastro-entérologue",
	"Ileus":                                "Gastro-entérologue",
	"Hernia":                               "Gastro-entérologue",
	"Ulcer peptic":                         "Gastro-entérologue",
	"Diverticulitis":                       "Gastro-entérologue",
	"Diverticulosis":                       "Gastro-entérologue",
	"Gastritis":                            "Gastro-entérologue",
	"Gastroenteritis":                      "Gastro-entérologue",
	"Primary carcinoma of the liver cells": "Gastro-entérologue",
	"Hemorrhoids":                          "Gastro-entérologue",
	"Hernia\u00a0hiatal":                   "Gastro-entérologue",
	"Colitis":                              "Gastro-entérologue",
	"Hepatitis b":                          "Gastro-entérologue",
	"Hepatitis":                            "Gastro-entérologue",
	"Malignant tumor of colon":             "Gastro-entérologue",
	"Carcinoma colon":                      "Gastro-entérologue",

	"Accident\u00a0cerebrovascular": "Neurologue",
	"Dementia":                      "Neurologue",
	"Epilepsy":                      "Neurologue",
	"Hemiparesis":                   "Neurologue",
	"Transient ischemic attack":     "Neurologue",
	"Paranoia":                      "Neurologue",
	"Parkinson disease":             "Neurologue",
	"Encephalopathy":                "Neurologue",
	"Alzheimer's disease":           "Neurologue",
	"Neuropathy":                    "Neurologue",
	"Migraine disorders":            "Neurologue",
	"Tonic-clonic epilepsy":         "Neurologue",
	"Tonic-clonic seizures":         "Neurologue",
	"Delirium":                      "Neurologue",
	"Aphasia":                       "Neurologue",
	"Confusion":                     "Neurologue",

	"Malignant neoplasms":          "Oncologue",
	"Primary malignant neoplasm":   "Oncologue",
	"Carcinoma":                    "Oncologue",
	"Malignant neoplasm of breast": "Oncologue",
	"Carcinoma breast":             "Oncologue",
	"Malignant neoplasm of lung":   "Oncologue",
	"Carcinoma of lung":            "Oncologue",
	"Neoplasm":                     "Oncologue",
	"Neoplasm metastasis":          "Oncologue",
	"Lymphatic diseases":           "Oncologue",
	"Lymphoma":                     "Oncologue",
	"Melanoma":                     "Oncologue",
	"Malignant\u00a0neoplasms":     "Oncologue",

	"Arthritis":                       "Rhumatologue",
	"Osteoporosis":                    "Rhumatologue",
	"Degenerative\u00a0polyarthritis": "Rhumatologue",
	"Gout":                            "Rhumatologue",

	"Cellulitis":      "Dermatologue",
	"Exanthema":       "Dermatologue",
	"Candidiasis":     "Dermatologue",
	"Oralcandidiasis": "Dermatologue",

	"Anemia":             "Hématologue",
	"Thrombocytopaenia":  "Hématologue",
	"Pancytopenia":       "Hématologue",
	"Neutropenia":        "Hématologue",
	"Sickle cell anemia": "Hématologue",

	"Allergie": "Allergologue",

	"Angine": "ORL",

	"Rhume":                       "Généraliste",
	"Grippe":                      "Généraliste",
	"COVID-19":                    "Généraliste",
	"Infection":                   "Généraliste",
	"Septicemia":                  "Généraliste",
	"Systemic infection":          "Généraliste",
	"Sepsis (invertebrate)":       "Généraliste",
	"Bacteremia":                  "Généraliste",
	"Influenza":                   "Généraliste",
	"Dehydration":                 "Généraliste",
	"Hypoglycemia":                "Généraliste",
	"Overload fluid":              "Généraliste",
	"Obesity":                     "Généraliste",
	"Obesity morbid":              "Généraliste",
	"Hypercholesterolemia":        "Généraliste",
	"Hyperlipidemia":              "Généraliste",
	"Ischemia":                    "Généraliste",
	"Peripheral vascular disease": "Généraliste",
	"Deep vein thrombosis":        "Généraliste",
	"Thrombus":                    "Généraliste",
	"Decubitus ulcer":             "Généraliste",
	"Incontinence":                "Généraliste",
	"Paroxysmal\u00a0dyspnea":     "Généraliste",
	"Deglutition disorder":        "Généraliste",
}
